package port

import (
	"context"

	"lostfound/internal/domain"
)

// EmailMessage is one templated email. Variables are substituted into the
// template selected by Kind.
type EmailMessage struct {
	Kind      domain.NotificationKind
	To        string
	Variables map[string]string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}
