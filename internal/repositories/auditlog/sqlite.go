package auditlog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vkotelnikov/autopark/internal/dbx"
	"github.com/vkotelnikov/autopark/internal/models"
)

// SQLiteRepository implements Repository against SQLite via a DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, e *models.AuditEntry) error {
	query := `INSERT INTO auth_log (account_id, username, action, ip_address, user_agent, success, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)
	          RETURNING id`

	var accountID sql.NullInt64
	if e.AccountID != nil {
		accountID = sql.NullInt64{Int64: *e.AccountID, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, query,
		accountID, e.Username, e.Action, e.IPAddress, e.UserAgent, e.Success, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	query := `SELECT id, account_id, username, action, ip_address, user_agent, success, created_at
	          FROM auth_log ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.AuditEntry
	for rows.Next() {
		e := models.AuditEntry{}
		var accountID sql.NullInt64
		if err := rows.Scan(&e.ID, &accountID, &e.Username, &e.Action,
			&e.IPAddress, &e.UserAgent, &e.Success, &e.CreatedAt); err != nil {
			return nil, err
		}
		if accountID.Valid {
			id := accountID.Int64
			e.AccountID = &id
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
