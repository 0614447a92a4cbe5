package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Нужен живой PostgreSQL: TEST_DATABASE_DSN="host=localhost user=... dbname=..."
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	repo, err := New(dsn)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate())
	t.Cleanup(func() {
		_ = repo.Delete(context.Background(), "access_token", "refresh_token", "current_user")
	})
	return repo
}

func TestSessionEntry_TableName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "session_entries", SessionEntry{}.TableName())
}

func TestRepository_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Save(ctx, map[string]string{
		"access_token": "a1",
		"current_user": `{"id":1}`,
	}))

	// повторная запись обновляет значения
	require.NoError(t, repo.Save(ctx, map[string]string{
		"access_token":  "a2",
		"refresh_token": "r2",
	}))

	entries, err := repo.Load(ctx, "access_token", "refresh_token", "current_user")
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"access_token":  "a2",
		"refresh_token": "r2",
		"current_user":  `{"id":1}`,
	}, entries)

	require.NoError(t, repo.Delete(ctx, "access_token", "refresh_token", "current_user"))
	entries, err = repo.Load(ctx, "access_token")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRepository_CloseReleasesPool(t *testing.T) {
	t.Parallel()

	// соединение ленивое, сервер не нужен
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=1 user=adal dbname=adal sslmode=disable",
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	repo := NewWithDB(db)
	require.NoError(t, repo.Close())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.Error(t, sqlDB.Ping())

	_, err = repo.Load(context.Background(), "access_token")
	require.Error(t, err)
}
