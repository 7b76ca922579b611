// Package sessions persists the reserved session records. No component
// issues or validates sessions yet; the table and this repository exist as
// the extension point, and expired rows can be purged by maintenance.
package sessions

import (
	"context"
	"time"

	"github.com/vkotelnikov/autopark/internal/models"
)

type Repository interface {
	// Create inserts a session for the account with a generated identifier.
	Create(ctx context.Context, accountID int64, ttl time.Duration) (*models.Session, error)
	// GetByID returns the session with the given identifier.
	GetByID(ctx context.Context, id string) (*models.Session, error)
	// DeleteExpired removes sessions whose expiry is at or before now and
	// reports how many rows were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
