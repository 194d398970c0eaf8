package db

import (
	"context"
	"database/sql"
	"fmt"
)

// UnitOfWork runs a kv_store read-modify-write in one transaction. The
// quota check in storage.SQLiteStore.Set sums the other rows and upserts
// through the same DBTX, so the sum it checked is the sum it wrote against.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork is the production UnitOfWork over a *sql.DB.
type SQLiteUnitOfWork struct {
	database *sql.DB
}

func NewSQLiteUnitOfWork(database *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{database: database}
}

// WithinTx commits when fn returns nil. An error or panic from fn rolls the
// transaction back, so a rejected or failed kv write leaves no row behind.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning kv transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back kv transaction: %v (after: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing kv transaction: %w", err)
	}
	committed = true
	return nil
}
