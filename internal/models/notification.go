package models

// Notification represents an in-app alert for an operator.
// Notifications are created by backend logic (reminders, discrepancy
// checks); the only mutation this service performs is flipping IsRead
// from false to true. Notifications are never deleted.
type Notification struct {
	// ID is the unique identifier for the notification (UUID format).
	ID string `json:"id"`

	// UserID is the recipient operator's user ID.
	UserID string `json:"user_id"`

	// Type is a free-form tag such as "reminder" or "discrepancy".
	Type string `json:"type"`

	// Title is the short headline shown in the notification list.
	Title string `json:"title"`

	// Message is the full body text.
	Message string `json:"message"`

	// IsRead reports whether the recipient has seen the notification.
	IsRead bool `json:"is_read"`

	// CreatedAt is the Unix timestamp when the notification was created.
	CreatedAt int64 `json:"created_at"`
}
