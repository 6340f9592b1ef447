package entity

import "time"

// Notification is a per-recipient message shown in the UI bell. Stored in
// redis keyed by recipient, not in PostgreSQL.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Kind      string    `json:"kind"` // info, warning, fiscal
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
