package domain

// Category classifies a report as a lost or a found item.
type Category string

const (
	CategoryLost  Category = "lost"
	CategoryFound Category = "found"
)

// Valid reports whether c is one of the two permitted categories.
func (c Category) Valid() bool {
	return c == CategoryLost || c == CategoryFound
}

// ReportStatus is the admin-facing status of a persisted report.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusResolved ReportStatus = "resolved"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	return s == ReportStatusPending || s == ReportStatusResolved
}

// CanTransitionTo reports whether a stored report may move from s to next.
// Status is monotonic: pending may become resolved, nothing moves back.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	return s == ReportStatusPending && next == ReportStatusResolved
}

// NotificationKind identifies which email template a notification uses.
type NotificationKind string

const (
	NotificationSubmitted NotificationKind = "submitted"
	NotificationResolved  NotificationKind = "resolved"
	NotificationSignup    NotificationKind = "signup"
	NotificationLogin     NotificationKind = "login"
)

// Theme is the persisted UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a supported theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// ChangeType describes what happened to a report in the store.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)
