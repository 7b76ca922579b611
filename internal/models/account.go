// Package models defines the persisted records owned by the auth store.
package models

import (
	"errors"
	"time"
)

// ErrInvalidRole is returned when a role string is neither "admin" nor "user".
var ErrInvalidRole = errors.New("invalid role")

// Role is the closed set of account roles. Only the two constants below are
// valid; construct values through ParseRole so invalid roles never reach
// the store.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole validates a raw role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string { return string(r) }

// Account is one stored credential + role record. Lockout state lives
// directly on the row: LoginAttempts counts consecutive failed password
// checks, LockedUntil is set once the threshold is reached and cleared on
// any successful authentication.
type Account struct {
	ID            int64
	Username      string
	PasswordHash  string
	PasswordSalt  string
	Role          Role
	FullName      string
	Email         string
	IsActive      bool
	CreatedAt     time.Time
	LastLogin     *time.Time
	LoginAttempts int
	LockedUntil   *time.Time
}

// Locked reports whether the account is locked as of now.
func (a *Account) Locked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}
