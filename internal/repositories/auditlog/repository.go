// Package auditlog persists the append-only record of authentication events.
// Entries are only ever inserted; nothing in this codebase updates or
// deletes them.
package auditlog

import (
	"context"

	"github.com/vkotelnikov/autopark/internal/models"
)

type Repository interface {
	// Append inserts one entry and fills in its assigned ID.
	Append(ctx context.Context, e *models.AuditEntry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}
