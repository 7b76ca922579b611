package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vkotelnikov/autopark/internal/dbx"
	"github.com/vkotelnikov/autopark/internal/models"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository against SQLite via a DBTX
// (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func isSQLiteUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		serr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func (r *SQLiteRepository) Create(ctx context.Context, acc *models.Account) error {
	query := `INSERT INTO accounts (username, password_hash, password_salt, role, full_name, email, is_active, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	          RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		acc.Username, acc.PasswordHash, acc.PasswordSalt, string(acc.Role),
		acc.FullName, acc.Email, acc.IsActive, acc.CreatedAt).Scan(&acc.ID)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const sqliteAccountColumns = `id, username, password_hash, password_salt, role, full_name, email,
	is_active, created_at, last_login, login_attempts, locked_until`

func scanSQLiteAccount(row *sql.Row) (*models.Account, error) {
	acc := &models.Account{}
	var role string
	var lastLogin, lockedUntil sql.NullTime
	err := row.Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.PasswordSalt, &role,
		&acc.FullName, &acc.Email, &acc.IsActive, &acc.CreatedAt,
		&lastLogin, &acc.LoginAttempts, &lockedUntil)
	if err != nil {
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
	return acc, nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + sqliteAccountColumns + ` FROM accounts WHERE username = ?`

	acc, err := scanSQLiteAccount(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return acc, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Account, error) {
	query := `SELECT ` + sqliteAccountColumns + ` FROM accounts ORDER BY username ASC`

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

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, username string, upd ProfileUpdate) (int64, error) {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if upd.FullName != nil {
		set = append(set, "full_name = ?")
		args = append(args, *upd.FullName)
	}
	if upd.Email != nil {
		set = append(set, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.Role != nil {
		set = append(set, "role = ?")
		args = append(args, string(*upd.Role))
	}
	if upd.IsActive != nil {
		set = append(set, "is_active = ?")
		args = append(args, *upd.IsActive)
	}
	if len(set) == 0 {
		return 0, ErrEmptyUpdate
	}
	args = append(args, username)

	query := `UPDATE accounts SET ` + strings.Join(set, ", ") + ` WHERE username = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) UpdatePassword(ctx context.Context, username, hash, salt string) (int64, error) {
	query := `UPDATE accounts
	          SET password_hash = ?, password_salt = ?, login_attempts = 0, locked_until = NULL
	          WHERE username = ?`

	res, err := r.db.ExecContext(ctx, query, hash, salt, username)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) RecordFailure(ctx context.Context, id int64, threshold int, lockedUntil time.Time) (int, bool, error) {
	var attempts int
	query := `UPDATE accounts SET login_attempts = login_attempts + 1 WHERE id = ? RETURNING login_attempts`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&attempts); err != nil {
		return 0, false, fmt.Errorf("db error: %w", err)
	}
	if attempts < threshold {
		return attempts, false, nil
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE accounts SET locked_until = ? WHERE id = ?`, lockedUntil, id); err != nil {
		return attempts, false, fmt.Errorf("db error: %w", err)
	}
	return attempts, true, nil
}

func (r *SQLiteRepository) RecordSuccess(ctx context.Context, id int64, loginAt time.Time) error {
	query := `UPDATE accounts
	          SET login_attempts = 0, locked_until = NULL, last_login = ?
	          WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, loginAt, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, username string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE username = ?`, username)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}
