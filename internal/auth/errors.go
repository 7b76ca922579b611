package auth

import (
	"errors"

	"github.com/vkotelnikov/autopark/internal/models"
)

var (
	// ErrInvalidCredentials is the single failure callers see for an
	// unknown username, an inactive account, or a wrong password.
	// Collapsing these keeps usernames unenumerable; the audit log records
	// the real reason.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked is returned while an account's lockout window is
	// still open. The password is not examined in that state.
	ErrAccountLocked = errors.New("account temporarily locked")

	// ErrNoSuchAccount is returned by the management calls (get, update,
	// delete) when no account matches the username.
	ErrNoSuchAccount = errors.New("no such account")

	// ErrInvalidRole rejects any role other than admin or user.
	ErrInvalidRole = models.ErrInvalidRole

	// ErrDuplicateUsername rejects account creation for a taken username.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrStorageUnavailable wraps any backing-store fault. Every public
	// operation converts storage errors into this instead of panicking;
	// match with errors.Is.
	ErrStorageUnavailable = errors.New("auth storage unavailable")
)
