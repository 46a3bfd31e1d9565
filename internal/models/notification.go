package models

import "time"

// Notification kinds.
const (
	NotificationComment  = "comment"
	NotificationNotice   = "notice"
	NotificationWarning  = "warning"
	NotificationReminder = "reminder"
)

// Notification is an ephemeral record under a user's key space. The
// store drops it once ExpiresAt passes; nothing ever deletes one
// explicitly.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
