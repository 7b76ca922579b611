package models

import "time"

// Audit action tags. The auth log is append-only; entries are never updated
// or deleted by this codebase.
const (
	ActionLogin          = "login"
	ActionLoginBlocked   = "login_blocked"
	ActionLoginError     = "login_error"
	ActionCreateUser     = "create_user"
	ActionChangePassword = "change_password"
)

// AuditEntry records one authentication-relevant event. AccountID is nil
// when the attempted username did not resolve to an account; Username is the
// raw attempted value and is recorded either way.
type AuditEntry struct {
	ID        int64
	AccountID *int64
	Username  string
	Action    string
	IPAddress string
	UserAgent string
	Success   bool
	CreatedAt time.Time
}
