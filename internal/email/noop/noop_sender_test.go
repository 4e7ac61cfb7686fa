package noop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"lostfound/internal/domain"
	"lostfound/internal/email/noop"
	"lostfound/internal/port"
)

func TestNoopSender_LogsRenderedEmail(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := noop.NewNoopSender(zap.New(core))

	err := s.Send(context.Background(), port.EmailMessage{
		Kind: domain.NotificationResolved,
		To:   "owner@campus.edu",
		Variables: map[string]string{
			"item_name": "Keys",
			"status":    "Resolved",
			"message":   "Your report has been resolved.",
		},
	})

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "owner@campus.edu", fields["to"])
	assert.Equal(t, "resolved", fields["kind"])
	assert.Contains(t, fields["body"], "Keys")
}
