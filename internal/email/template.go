// Package email renders the transactional emails sent by the portal. The
// delivery backends live in the ses and noop subpackages.
package email

import (
	"fmt"
	"html"

	"lostfound/internal/domain"
	"lostfound/internal/port"
)

// Messages the portal puts in the "message" variable.
const (
	MessageSubmitted = "📩 Your report has been submitted successfully. Our team will review it and get back to you soon."
	MessageResolved  = "📌 Your report has been resolved. Thank you for reaching out to us!"
	MessageSignup    = "Welcome! Your account has been created."
	MessageLogin     = "You have successfully logged in."
)

// Rendered is a fully rendered email.
type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

// Render builds the subject and bodies for msg. Report emails use the
// item_name, status and message variables; account emails use name, type
// and message.
func Render(msg port.EmailMessage) (Rendered, error) {
	v := msg.Variables
	switch msg.Kind {
	case domain.NotificationSubmitted, domain.NotificationResolved:
		subject := fmt.Sprintf("Lost & Found: %s is %s", v["item_name"], v["status"])
		text := fmt.Sprintf("Item: %s\nStatus: %s\n\n%s\n\nCampus Lost & Found", v["item_name"], v["status"], v["message"])
		return Rendered{
			Subject: subject,
			HTML:    buildReportHTML(v["item_name"], v["status"], v["message"]),
			Text:    text,
		}, nil
	case domain.NotificationSignup, domain.NotificationLogin:
		subject := "Welcome to Campus Lost & Found"
		if msg.Kind == domain.NotificationLogin {
			subject = "New sign-in to Campus Lost & Found"
		}
		text := fmt.Sprintf("Hi %s,\n\n%s\n\nCampus Lost & Found", v["name"], v["message"])
		return Rendered{
			Subject: subject,
			HTML:    buildAccountHTML(v["name"], v["message"]),
			Text:    text,
		}, nil
	default:
		return Rendered{}, fmt.Errorf("email.Render: unknown kind %q", msg.Kind)
	}
}

func buildReportHTML(itemName, status, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s</h2>
  <p>Status: <strong>%s</strong></p>
  <p>%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Campus Lost &amp; Found</p>
</body>
</html>`, html.EscapeString(itemName), html.EscapeString(status), html.EscapeString(message))
}

func buildAccountHTML(name, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <p>Hi %s,</p>
  <p>%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Campus Lost &amp; Found</p>
</body>
</html>`, html.EscapeString(name), html.EscapeString(message))
}
