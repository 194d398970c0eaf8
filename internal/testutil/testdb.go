package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/taskflow/internal/db"
)

// NewTestDB opens an in-memory taskflow database with the kv_store schema
// migrated. It is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// NewTestUoW returns the production unit of work over database, for tests
// that pass it to storage.WithUnitOfWork explicitly.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
