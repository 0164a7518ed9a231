package sqlite

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBLimitsConnectionPool(t *testing.T) {
	_, filename, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(filename), "..", "..", "..", "..")

	db, err := NewDB(
		filepath.Join(t.TempDir(), "todo.db"),
		filepath.Join(root, "db", "migrations", "sqlite"),
	)
	require.NoError(t, err)
	defer db.Close()

	// The limit must hold on the handle the repositories actually use,
	// not on an intermediate one.
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestNewDBRunsMigrations(t *testing.T) {
	_, filename, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(filename), "..", "..", "..", "..")

	db, err := NewDB(
		filepath.Join(t.TempDir(), "todo.db"),
		filepath.Join(root, "db", "migrations", "sqlite"),
	)
	require.NoError(t, err)
	defer db.Close()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'todos')").Scan(&count)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
