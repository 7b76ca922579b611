package models

import "time"

// Session is a reserved extension point: nothing in this codebase issues or
// validates sessions yet, but the table is part of the schema and cascades
// on account deletion.
type Session struct {
	ID        string
	AccountID int64
	CreatedAt time.Time
	ExpiresAt time.Time
}
