package repomanager

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/vkotelnikov/autopark/internal/dbx"
	"github.com/vkotelnikov/autopark/internal/migrations"
	"github.com/vkotelnikov/autopark/internal/repositories/accounts"
	"github.com/vkotelnikov/autopark/internal/repositories/auditlog"
	"github.com/vkotelnikov/autopark/internal/repositories/sessions"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories. This is the
// default backend; the store is a single database file.
type SQLiteRepositoryManager struct{}

// Open opens the SQLite database. Foreign-key enforcement is off by default
// in SQLite, and the schema relies on it for session cascade and audit-log
// nullify, so the pragma is added to the DSN unless already present.
func (m *SQLiteRepositoryManager) Open(dsn string) (*sql.DB, error) {
	if !strings.Contains(dsn, "_pragma=foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	}
	return sql.Open("sqlite", dsn)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Files)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "sqlite")
}

func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) AuditLog(db dbx.DBTX) auditlog.Repository {
	return auditlog.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewSQLiteRepository(db)
}
