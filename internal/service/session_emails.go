package service

import (
	"lostfound/internal/domain"
	"lostfound/internal/email"
)

// AccountEmailObserver enqueues the welcome email on sign-up and the
// sign-in notice on sign-in.
func AccountEmailObserver(queue NotificationQueue) SessionObserver {
	return func(ev SessionEvent) {
		if ev.User == nil {
			return
		}
		var (
			kind    domain.NotificationKind
			message string
		)
		switch ev.Type {
		case SessionSignedUp:
			kind, message = domain.NotificationSignup, email.MessageSignup
		case SessionSignedIn:
			kind, message = domain.NotificationLogin, email.MessageLogin
		default:
			return
		}
		queue.Enqueue(domain.Notification{
			Kind: kind,
			To:   ev.User.Email,
			Variables: map[string]string{
				"email":   ev.User.Email,
				"name":    ev.User.Firstname,
				"type":    string(kind),
				"message": message,
			},
		})
	}
}
