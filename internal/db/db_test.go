package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenForTesting(t *testing.T) {
	d, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	var tableName string
	err = d.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='kv'").Scan(&tableName)
	require.NoError(t, err)
	assert.Equal(t, "kv", tableName)
}

func TestOpenForTestingIsolated(t *testing.T) {
	a, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	b, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, b.Close()) })

	_, err = a.Exec("INSERT INTO kv (key, value) VALUES ('gallery', '[]')")
	require.NoError(t, err)

	var count int
	require.NoError(t, b.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count))
	assert.Zero(t, count)
}

func TestOpenFileReopensWithoutReapplying(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photogrid.db")

	first, err := Open(path)
	require.NoError(t, err)
	_, err = first.Exec("INSERT INTO kv (key, value) VALUES ('gallery', '[\"a.jpg\"]')")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, second.Close()) })

	var value string
	err = second.QueryRow("SELECT value FROM kv WHERE key = 'gallery'").Scan(&value)
	require.NoError(t, err)
	assert.Equal(t, `["a.jpg"]`, value)

	var version int
	require.NoError(t, second.QueryRow("SELECT version FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestRunMigrationsIdempotent(t *testing.T) {
	d, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	assert.NoError(t, runMigrations(d))
	assertTable(t, d, "kv")
}

func assertTable(t *testing.T, d *sql.DB, name string) {
	t.Helper()
	var got string
	err := d.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&got)
	require.NoError(t, err)
	assert.Equal(t, name, got)
}
