// Package accounts persists account rows, including the lockout state that
// lives on each row.
package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/vkotelnikov/autopark/internal/models"
)

var (
	// ErrNotFound is returned when no account matches the given username.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicate is returned when an insert violates the username
	// uniqueness constraint.
	ErrDuplicate = errors.New("username already exists")
	// ErrEmptyUpdate is returned when a profile update carries no fields.
	ErrEmptyUpdate = errors.New("no fields to update")
)

// ProfileUpdate is the explicit allow-list of mutable profile fields. Only
// non-nil fields are applied; password and username can never travel
// through this path.
type ProfileUpdate struct {
	FullName *string
	Email    *string
	Role     *models.Role
	IsActive *bool
}

// Repository is implemented per storage backend. Implementations are bound
// to a dbx.DBTX at construction, so the same repository code runs inside or
// outside a transaction.
type Repository interface {
	// Create inserts the account and fills in its assigned ID.
	Create(ctx context.Context, acc *models.Account) error
	// GetByUsername returns the account with the exact username, active or not.
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	// List returns all accounts ordered by username ascending.
	List(ctx context.Context) ([]models.Account, error)
	// Count returns the total number of accounts.
	Count(ctx context.Context) (int64, error)
	// UpdateProfile applies the allow-listed fields and reports how many
	// rows matched.
	UpdateProfile(ctx context.Context, username string, upd ProfileUpdate) (int64, error)
	// UpdatePassword stores a fresh hash and salt and resets the lockout
	// state in the same statement.
	UpdatePassword(ctx context.Context, username, hash, salt string) (int64, error)
	// RecordFailure increments the failed-attempt counter by one and, once
	// the counter reaches threshold, sets locked_until. Returns the new
	// counter value and whether the account is now locked.
	RecordFailure(ctx context.Context, id int64, threshold int, lockedUntil time.Time) (int, bool, error)
	// RecordSuccess resets the counter, clears locked_until and stamps
	// last_login.
	RecordSuccess(ctx context.Context, id int64, loginAt time.Time) error
	// Delete removes the account and reports how many rows matched.
	Delete(ctx context.Context, username string) (int64, error)
}
