package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is re-run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillSizes(db); err != nil {
		return fmt.Errorf("backfilling kv_store sizes: %w", err)
	}
	return nil
}

// migrateBackfillSizes fills size_bytes for rows written before the column
// existed, so quota accounting covers them.
func migrateBackfillSizes(db *sql.DB) error {
	_, err := db.Exec(`UPDATE kv_store
		SET size_bytes = LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))
		WHERE size_bytes = 0`)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`ALTER TABLE kv_store ADD COLUMN size_bytes INTEGER NOT NULL DEFAULT 0`,

	`CREATE INDEX IF NOT EXISTS idx_kv_store_updated ON kv_store(updated_at)`,
}
