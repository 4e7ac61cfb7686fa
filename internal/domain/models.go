package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report is a lost or found item record.
type Report struct {
	ID            uuid.UUID    `db:"id" json:"id"`
	Name          string       `db:"name" json:"name"`
	Description   string       `db:"description" json:"description"`
	Location      string       `db:"location" json:"location"`
	Contact       string       `db:"contact" json:"contact"`
	Category      Category     `db:"category" json:"category"`
	ImageURL      string       `db:"image_url" json:"image_url"`
	ReporterEmail string       `db:"reporter_email" json:"reporter_email"`
	Status        ReportStatus `db:"status" json:"status"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
}

// ReportForm is the raw, user-editable part of a report before it exists.
type ReportForm struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Location    string `json:"location" form:"location"`
	Contact     string `json:"contact" form:"contact"`
	Category    string `json:"category" form:"category"`
}

// ReportFilter narrows a report listing. Zero values mean "any".
type ReportFilter struct {
	Category Category
	Status   ReportStatus
	Search   string
	Limit    int
}

// ReportStats holds the feed counters shown on the home page.
type ReportStats struct {
	Lost  int `json:"lost"`
	Found int `json:"found"`
	Total int `json:"total"`
}

// ReportChange is published after any write to the reports collection.
type ReportChange struct {
	Type     ChangeType `json:"type"`
	ReportID uuid.UUID  `json:"report_id"`
	At       time.Time  `json:"at"`
}

// User is a registered end user of the portal.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Firstname    string    `db:"firstname" json:"firstname"`
	Lastname     string    `db:"lastname" json:"lastname"`
	Username     string    `db:"username" json:"username"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserSession is the authenticated end-user identity attached to a request.
// A nil *UserSession means the caller is anonymous.
type UserSession struct {
	UserID  uuid.UUID
	Email   string
	TokenID string
}

// Notification is one outbound email waiting in the outbox.
type Notification struct {
	Kind      NotificationKind
	To        string
	Variables map[string]string
}

// NotificationFailure records a send that did not succeed.
type NotificationFailure struct {
	Kind     NotificationKind `json:"kind"`
	To       string           `json:"to"`
	Error    string           `json:"error"`
	FailedAt time.Time        `json:"failed_at"`
}
