// Package repomanager selects a storage backend and vends the repository
// implementations for it, plus the goose schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vkotelnikov/autopark/internal/dbx"
	"github.com/vkotelnikov/autopark/internal/repositories/accounts"
	"github.com/vkotelnikov/autopark/internal/repositories/auditlog"
	"github.com/vkotelnikov/autopark/internal/repositories/sessions"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// RepositoryManager vends backend-specific repositories bound to the given
// DBTX, so the same manager serves both transactional and autocommit calls.
type RepositoryManager interface {
	// Open opens the backing database for the given DSN. The caller owns
	// the returned handle and must close it.
	Open(dsn string) (*sql.DB, error)
	// RunMigrations brings the schema up to date.
	RunMigrations(ctx context.Context, db *sql.DB) error

	Accounts(db dbx.DBTX) accounts.Repository
	AuditLog(db dbx.DBTX) auditlog.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}

// New returns the RepositoryManager for the named driver.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case DriverSQLite:
		return &SQLiteRepositoryManager{}, nil
	case DriverPostgres:
		return &PostgresRepositoryManager{}, nil
	}
	return nil, fmt.Errorf("unsupported database driver: %q", driver)
}
