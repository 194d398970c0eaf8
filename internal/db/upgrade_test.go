package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A kv_store created before size accounting existed gains the column and
// has existing rows backfilled, without losing data.
func TestMigrate_UpgradePath_LegacyKVStore(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO kv_store (key, value, updated_at) VALUES ('k', 'value', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var value string
	var size int
	require.NoError(t, db.QueryRow(`SELECT value, size_bytes FROM kv_store WHERE key = 'k'`).Scan(&value, &size))
	assert.Equal(t, "value", value)
	assert.Equal(t, 6, size)
}
