package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lostfound/internal/broker/memory"
	"lostfound/internal/domain"
)

func TestNotifier_FanOut(t *testing.T) {
	n := memory.NewNotifier()
	ctx := context.Background()

	a, cancelA, err := n.Subscribe(ctx)
	require.NoError(t, err)
	defer cancelA()
	b, cancelB, err := n.Subscribe(ctx)
	require.NoError(t, err)
	defer cancelB()

	change := domain.ReportChange{Type: domain.ChangeCreated, ReportID: uuid.New(), At: time.Now()}
	require.NoError(t, n.Publish(ctx, change))

	assert.Equal(t, change, <-a)
	assert.Equal(t, change, <-b)
}

func TestNotifier_CancelClosesChannelAndIsIdempotent(t *testing.T) {
	n := memory.NewNotifier()

	ch, cancel, err := n.Subscribe(context.Background())
	require.NoError(t, err)

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.NoError(t, n.Publish(context.Background(), domain.ReportChange{Type: domain.ChangeDeleted}))
}

func TestNotifier_ContextCancelReleases(t *testing.T) {
	n := memory.NewNotifier()
	ctx, cancelCtx := context.WithCancel(context.Background())

	ch, _, err := n.Subscribe(ctx)
	require.NoError(t, err)
	cancelCtx()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription not released after context cancel")
	}
}

func TestNotifier_FullBufferDoesNotBlock(t *testing.T) {
	n := memory.NewNotifier()
	_, cancel, err := n.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			_ = n.Publish(context.Background(), domain.ReportChange{Type: domain.ChangeUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
