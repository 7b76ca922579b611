package accounts

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

	_, err = db.Exec(`CREATE TABLE accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		password_salt TEXT NOT NULL,
		role TEXT NOT NULL,
		full_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		last_login TIMESTAMP,
		login_attempts INTEGER NOT NULL DEFAULT 0,
		locked_until TIMESTAMP
	)`)
	require.NoError(t, err)
	return db
}

func testAccount(username string) *models.Account {
	return &models.Account{
		Username:     username,
		PasswordHash: "deadbeef",
		PasswordSalt: "0123456789abcdef",
		Role:         models.RoleUser,
		FullName:     "Test " + username,
		Email:        username + "@example.com",
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	acc := testAccount("driver1")
	require.NoError(t, repo.Create(ctx, acc))
	assert.NotZero(t, acc.ID)

	got, err := repo.GetByUsername(ctx, "driver1")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.Equal(t, acc.PasswordHash, got.PasswordHash)
	assert.Equal(t, acc.PasswordSalt, got.PasswordSalt)
	assert.Equal(t, models.RoleUser, got.Role)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.LastLogin)
	assert.Nil(t, got.LockedUntil)
	assert.Zero(t, got.LoginAttempts)
}

func TestCreateDuplicate(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testAccount("driver1")))
	err := repo.Create(ctx, testAccount("driver1"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetNotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndCount(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testAccount("zoe")))
	require.NoError(t, repo.Create(ctx, testAccount("adam")))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "adam", list[0].Username)
	assert.Equal(t, "zoe", list[1].Username)
}

func TestUpdateProfile(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testAccount("driver1")))

	name := "Renamed"
	role := models.RoleAdmin
	affected, err := repo.UpdateProfile(ctx, "driver1", ProfileUpdate{FullName: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.GetByUsername(ctx, "driver1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.FullName)
	assert.Equal(t, models.RoleAdmin, got.Role)
	// untouched fields keep their values
	assert.Equal(t, "driver1@example.com", got.Email)
}

func TestUpdateProfileEmpty(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	_, err := repo.UpdateProfile(context.Background(), "driver1", ProfileUpdate{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)
}

func TestUpdateProfileNoMatch(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	name := "Someone"
	affected, err := repo.UpdateProfile(context.Background(), "ghost", ProfileUpdate{FullName: &name})
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestUpdatePasswordResetsLockout(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	acc := testAccount("driver1")
	require.NoError(t, repo.Create(ctx, acc))

	until := time.Now().Add(time.Hour).UTC()
	for i := 0; i < 3; i++ {
		_, _, err := repo.RecordFailure(ctx, acc.ID, 3, until)
		require.NoError(t, err)
	}

	affected, err := repo.UpdatePassword(ctx, "driver1", "cafebabe", "fedcba9876543210")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.GetByUsername(ctx, "driver1")
	require.NoError(t, err)
	assert.Equal(t, "cafebabe", got.PasswordHash)
	assert.Equal(t, "fedcba9876543210", got.PasswordSalt)
	assert.Zero(t, got.LoginAttempts)
	assert.Nil(t, got.LockedUntil)
}

func TestRecordFailure(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	acc := testAccount("driver1")
	require.NoError(t, repo.Create(ctx, acc))

	until := time.Now().Add(30 * time.Minute).UTC()

	attempts, locked, err := repo.RecordFailure(ctx, acc.ID, 3, until)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.False(t, locked)

	attempts, locked, err = repo.RecordFailure(ctx, acc.ID, 3, until)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.False(t, locked)

	attempts, locked, err = repo.RecordFailure(ctx, acc.ID, 3, until)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.True(t, locked)

	got, err := repo.GetByUsername(ctx, "driver1")
	require.NoError(t, err)
	require.NotNil(t, got.LockedUntil)
	assert.True(t, got.Locked(time.Now()))
}

func TestRecordSuccess(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	acc := testAccount("driver1")
	require.NoError(t, repo.Create(ctx, acc))

	until := time.Now().Add(30 * time.Minute).UTC()
	_, _, err := repo.RecordFailure(ctx, acc.ID, 1, until)
	require.NoError(t, err)

	loginAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.RecordSuccess(ctx, acc.ID, loginAt))

	got, err := repo.GetByUsername(ctx, "driver1")
	require.NoError(t, err)
	assert.Zero(t, got.LoginAttempts)
	assert.Nil(t, got.LockedUntil)
	require.NotNil(t, got.LastLogin)
	assert.True(t, got.LastLogin.Equal(loginAt))
}

func TestDelete(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testAccount("driver1")))

	affected, err := repo.Delete(ctx, "driver1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Delete(ctx, "driver1")
	require.NoError(t, err)
	assert.Zero(t, affected)

	_, err = repo.GetByUsername(ctx, "driver1")
	assert.ErrorIs(t, err, ErrNotFound)
}
