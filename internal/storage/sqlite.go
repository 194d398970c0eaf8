package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/db"
)

// SQLiteStore is the durable primary, backed by the kv_store table.
type SQLiteStore struct {
	db       *sql.DB
	uow      db.UnitOfWork
	maxBytes int64
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithQuota caps the bytes the store may hold. Zero disables the cap.
func WithQuota(maxBytes int64) SQLiteOption {
	return func(s *SQLiteStore) { s.maxBytes = maxBytes }
}

// WithUnitOfWork replaces the unit of work used for writes.
func WithUnitOfWork(uow db.UnitOfWork) SQLiteOption {
	return func(s *SQLiteStore) { s.uow = uow }
}

// NewSQLiteStore creates a SQLiteStore on an opened and migrated database.
func NewSQLiteStore(database *sql.DB, opts ...SQLiteOption) *SQLiteStore {
	s := &SQLiteStore{db: database, uow: db.NewSQLiteUnitOfWork(database)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("kv key %s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("reading kv key %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the value. The quota check and the write share a transaction
// so a concurrent writer cannot push the table past the cap.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	size := entrySize(key, value)
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if s.maxBytes > 0 {
			var others int64
			err := tx.QueryRowContext(ctx,
				`SELECT COALESCE(SUM(size_bytes), 0) FROM kv_store WHERE key != ?`, key).Scan(&others)
			if err != nil {
				return fmt.Errorf("measuring kv store: %w", err)
			}
			if others+size > s.maxBytes {
				return fmt.Errorf("kv set %s: %w", key, ErrQuotaExceeded)
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO kv_store (key, value, updated_at, size_bytes) VALUES (?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value,
				updated_at = excluded.updated_at, size_bytes = excluded.size_bytes`,
			key, value, time.Now().UTC().Format(time.RFC3339), size)
		if err != nil {
			return fmt.Errorf("writing kv key %s: %w", key, err)
		}
		return nil
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting kv key %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Size(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size_bytes), 0) FROM kv_store`).Scan(&total); err != nil {
		return 0, fmt.Errorf("measuring kv store: %w", err)
	}
	return total, nil
}
