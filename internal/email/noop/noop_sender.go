package noop

import (
	"context"

	"go.uber.org/zap"

	"lostfound/internal/email"
	"lostfound/internal/port"
)

type noopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a no-op EmailSender that logs the rendered email.
func NewNoopSender(logger *zap.Logger) port.EmailSender {
	return &noopSender{logger: logger}
}

func (s *noopSender) Send(_ context.Context, msg port.EmailMessage) error {
	r, err := email.Render(msg)
	if err != nil {
		return err
	}
	s.logger.Info("noop email",
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
		zap.String("subject", r.Subject),
		zap.String("body", r.Text),
	)
	return nil
}
