package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	for _, table := range []string{"projects", "responses"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

func TestMigrationsAreRepeatable(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestResIDUniqueIndex(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	insert := `INSERT INTO projects (resid, "desc", owner, ip, created) VALUES (?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, insert, "abc", "d", "o", "LOCAL", time.Now().UTC())
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insert, "abc", "d2", "o2", "LOCAL", time.Now().UTC())
	require.Error(t, err)
	require.True(t, isUniqueViolation(err))
}

func TestWithForeignKeys(t *testing.T) {
	require.Equal(t, ":memory:", withForeignKeys(":memory:"))
	require.Equal(t, "pnaas.db?_pragma=foreign_keys(1)", withForeignKeys("pnaas.db"))
	require.Equal(t, "file:x?mode=memory&cache=shared&_pragma=foreign_keys(1)", withForeignKeys("file:x?mode=memory&cache=shared"))
}
