package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lostfound/internal/domain"
	"lostfound/internal/port"
	"lostfound/internal/service"
	"lostfound/mocks"
)

func resolvedNotification(to string) domain.Notification {
	return domain.Notification{
		Kind:      domain.NotificationResolved,
		To:        to,
		Variables: map[string]string{"item_name": "Wallet", "status": "Resolved"},
	}
}

// runDispatcher starts d and returns a func that stops it and waits.
func runDispatcher(d *service.NotificationDispatcher) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Start(ctx)
		close(done)
	}()
	return func() {
		cancel()
		<-done
	}
}

func TestNotificationDispatcher_Sends(t *testing.T) {
	sender := new(mocks.MockEmailSender)
	d := service.NewNotificationDispatcher(sender, service.NotificationConfig{Workers: 2, QueueSize: 10}, zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg port.EmailMessage) bool {
		return msg.To == "a@b.c" && msg.Kind == domain.NotificationResolved && msg.Variables["item_name"] == "Wallet"
	})).Run(func(mock.Arguments) { wg.Done() }).Return(nil).Once()

	stop := runDispatcher(d)
	require.True(t, d.Enqueue(resolvedNotification("a@b.c")))
	wg.Wait()
	stop()

	sender.AssertExpectations(t)
	assert.Empty(t, d.Failures())
}

func TestNotificationDispatcher_FailureIsRecordedNotRetried(t *testing.T) {
	sender := new(mocks.MockEmailSender)
	d := service.NewNotificationDispatcher(sender, service.NotificationConfig{Workers: 1, QueueSize: 10}, zap.NewNop())

	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

	require.True(t, d.Enqueue(resolvedNotification("a@b.c")))
	stop := runDispatcher(d)
	require.Eventually(t, func() bool { return len(d.Failures()) == 1 }, time.Second, 5*time.Millisecond)
	stop()

	sender.AssertNumberOfCalls(t, "Send", 1)
	f := d.Failures()[0]
	assert.Equal(t, "a@b.c", f.To)
	assert.Contains(t, f.Error, "smtp down")
}

func TestNotificationDispatcher_PanicIsRecovered(t *testing.T) {
	sender := new(mocks.MockEmailSender)
	d := service.NewNotificationDispatcher(sender, service.NotificationConfig{Workers: 1, QueueSize: 10}, zap.NewNop())

	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg port.EmailMessage) bool { return msg.To == "boom@b.c" })).
		Run(func(mock.Arguments) { panic("template exploded") })
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg port.EmailMessage) bool { return msg.To == "ok@b.c" })).
		Return(nil)

	require.True(t, d.Enqueue(resolvedNotification("boom@b.c")))
	require.True(t, d.Enqueue(resolvedNotification("ok@b.c")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)

	sender.AssertNumberOfCalls(t, "Send", 2)
	require.Len(t, d.Failures(), 1)
	assert.Contains(t, d.Failures()[0].Error, "template exploded")
}

func TestNotificationDispatcher_EnqueueNeverBlocks(t *testing.T) {
	sender := new(mocks.MockEmailSender)
	d := service.NewNotificationDispatcher(sender, service.NotificationConfig{Workers: 1, QueueSize: 1}, zap.NewNop())

	assert.True(t, d.Enqueue(resolvedNotification("first@b.c")))
	assert.False(t, d.Enqueue(resolvedNotification("second@b.c")))

	failures := d.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "second@b.c", failures[0].To)
}

func TestNotificationDispatcher_DrainsOnShutdown(t *testing.T) {
	sender := new(mocks.MockEmailSender)
	d := service.NewNotificationDispatcher(sender, service.NotificationConfig{Workers: 1, QueueSize: 5}, zap.NewNop())
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	for i := 0; i < 3; i++ {
		require.True(t, d.Enqueue(resolvedNotification("a@b.c")))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)

	sender.AssertNumberOfCalls(t, "Send", 3)
}

func TestNotificationDispatcher_FailureLogIsBounded(t *testing.T) {
	sender := new(mocks.MockEmailSender)
	d := service.NewNotificationDispatcher(sender, service.NotificationConfig{
		Workers: 1, QueueSize: 1, FailureLogSize: 2,
	}, zap.NewNop())

	d.Enqueue(resolvedNotification("keep@b.c"))
	d.Enqueue(resolvedNotification("drop1@b.c"))
	d.Enqueue(resolvedNotification("drop2@b.c"))
	d.Enqueue(resolvedNotification("drop3@b.c"))

	failures := d.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "drop2@b.c", failures[0].To)
	assert.Equal(t, "drop3@b.c", failures[1].To)
}

func TestNotificationDispatcher_EnqueueAfterStopIsRecorded(t *testing.T) {
	sender := new(mocks.MockEmailSender)
	d := service.NewNotificationDispatcher(sender, service.NotificationConfig{Workers: 2, QueueSize: 5}, zap.NewNop())

	stop := runDispatcher(d)
	stop()

	assert.False(t, d.Enqueue(resolvedNotification("late@b.c")))

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	failures := d.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "late@b.c", failures[0].To)
	assert.Contains(t, failures[0].Error, "dispatcher stopped")
}
