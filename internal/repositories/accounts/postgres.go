package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
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

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PostgresRepository) Create(ctx context.Context, acc *models.Account) error {
	query := `INSERT INTO accounts (username, password_hash, password_salt, role, full_name, email, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		acc.Username, acc.PasswordHash, acc.PasswordSalt, string(acc.Role),
		acc.FullName, acc.Email, acc.IsActive, acc.CreatedAt).Scan(&acc.ID)
	if err != nil {
		if isPgUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const pgAccountColumns = `id, username, password_hash, password_salt, role, full_name, email,
	is_active, created_at, last_login, login_attempts, locked_until`

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + pgAccountColumns + ` FROM accounts WHERE username = $1`

	acc := &models.Account{}
	var role string
	var lastLogin, lockedUntil sql.NullTime
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&acc.ID, &acc.Username, &acc.PasswordHash, &acc.PasswordSalt, &role,
		&acc.FullName, &acc.Email, &acc.IsActive, &acc.CreatedAt,
		&lastLogin, &acc.LoginAttempts, &lockedUntil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	acc.Role = models.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		acc.LastLogin = &t
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		acc.LockedUntil = &t
	}
	return acc, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Account, error) {
	query := `SELECT ` + pgAccountColumns + ` FROM accounts ORDER BY username ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Account
	for rows.Next() {
		acc := models.Account{}
		var role string
		var lastLogin, lockedUntil sql.NullTime
		if err := rows.Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.PasswordSalt, &role,
			&acc.FullName, &acc.Email, &acc.IsActive, &acc.CreatedAt,
			&lastLogin, &acc.LoginAttempts, &lockedUntil); err != nil {
			return nil, err
		}
		acc.Role = models.Role(role)
		if lastLogin.Valid {
			t := lastLogin.Time
			acc.LastLogin = &t
		}
		if lockedUntil.Valid {
			t := lockedUntil.Time
			acc.LockedUntil = &t
		}
		result = append(result, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, username string, upd ProfileUpdate) (int64, error) {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.FullName != nil {
		add("full_name", *upd.FullName)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Role != nil {
		add("role", string(*upd.Role))
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}
	if len(set) == 0 {
		return 0, ErrEmptyUpdate
	}
	args = append(args, username)

	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE username = $%d`, strings.Join(set, ", "), len(args))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, username, hash, salt string) (int64, error) {
	query := `UPDATE accounts
	          SET password_hash = $1, password_salt = $2, login_attempts = 0, locked_until = NULL
	          WHERE username = $3`

	res, err := r.db.ExecContext(ctx, query, hash, salt, username)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) RecordFailure(ctx context.Context, id int64, threshold int, lockedUntil time.Time) (int, bool, error) {
	var attempts int
	query := `UPDATE accounts SET login_attempts = login_attempts + 1 WHERE id = $1 RETURNING login_attempts`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&attempts); err != nil {
		return 0, false, fmt.Errorf("db error: %w", err)
	}
	if attempts < threshold {
		return attempts, false, nil
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE accounts SET locked_until = $1 WHERE id = $2`, lockedUntil, id); err != nil {
		return attempts, false, fmt.Errorf("db error: %w", err)
	}
	return attempts, true, nil
}

func (r *PostgresRepository) RecordSuccess(ctx context.Context, id int64, loginAt time.Time) error {
	query := `UPDATE accounts
	          SET login_attempts = 0, locked_until = NULL, last_login = $1
	          WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, loginAt, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, username string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE username = $1`, username)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}
