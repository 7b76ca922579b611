package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/vkotelnikov/autopark/internal/dbx"
	"github.com/vkotelnikov/autopark/internal/migrations"
	"github.com/vkotelnikov/autopark/internal/repositories/accounts"
	"github.com/vkotelnikov/autopark/internal/repositories/auditlog"
	"github.com/vkotelnikov/autopark/internal/repositories/sessions"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories for
// deployments that keep the auth store on a shared database server.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Open(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Files)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "postgres")
}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) AuditLog(db dbx.DBTX) auditlog.Repository {
	return auditlog.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}
