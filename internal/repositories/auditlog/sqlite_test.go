package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkotelnikov/autopark/internal/models"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE auth_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id INTEGER,
		username TEXT NOT NULL,
		action TEXT NOT NULL,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		success INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	require.NoError(t, err)
	return db
}

func TestAppendAndRecent(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	accountID := int64(7)
	first := &models.AuditEntry{
		AccountID: &accountID,
		Username:  "driver1",
		Action:    models.ActionLogin,
		IPAddress: "10.0.0.7",
		UserAgent: "cli",
		Success:   false,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Append(ctx, first))
	assert.NotZero(t, first.ID)

	second := &models.AuditEntry{
		Username:  "ghost",
		Action:    models.ActionLogin,
		Success:   false,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Append(ctx, second))

	entries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Nil(t, entries[0].AccountID)
	assert.Equal(t, "ghost", entries[0].Username)

	assert.Equal(t, first.ID, entries[1].ID)
	require.NotNil(t, entries[1].AccountID)
	assert.Equal(t, accountID, *entries[1].AccountID)
	assert.Equal(t, "10.0.0.7", entries[1].IPAddress)
	assert.Equal(t, "cli", entries[1].UserAgent)
}

func TestRecentLimit(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, &models.AuditEntry{
			Username:  fmt.Sprintf("user%d", i),
			Action:    models.ActionLogin,
			Success:   true,
			CreatedAt: time.Now().UTC(),
		}))
	}

	entries, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "user4", entries[0].Username)
	assert.Equal(t, "user3", entries[1].Username)
}

func TestRecentEmpty(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	entries, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
