package auditlog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vkotelnikov/autopark/internal/dbx"
	"github.com/vkotelnikov/autopark/internal/models"
)

// PostgresRepository implements Repository against PostgreSQL via a DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e *models.AuditEntry) error {
	query := `INSERT INTO auth_log (account_id, username, action, ip_address, user_agent, success, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
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

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	query := `SELECT id, account_id, username, action, ip_address, user_agent, success, created_at
	          FROM auth_log ORDER BY id DESC LIMIT $1`

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
