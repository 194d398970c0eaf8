// Package storage persists timer state, time entries, active sessions and
// preferences in key-value stores. A durable primary is paired with an
// ephemeral backup through MirroredStore, and Manager layers typed access,
// encoding and quota recovery on top.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a store when the key holds no value.
	ErrNotFound = errors.New("not found")
	// ErrQuotaExceeded is returned by a store when a write would exceed its byte quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KeyValueStore is the minimal contract every backend satisfies. Values are
// opaque strings; Size reports the bytes held, keys included.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Size(ctx context.Context) (int64, error)
}

// BackupReader is implemented by stores that keep a second copy of each key.
// Manager uses it when the primary copy exists but cannot be decoded.
type BackupReader interface {
	GetBackup(ctx context.Context, key string) (string, error)
}

// UsageReporter is implemented by stores that can split their size between
// the primary and the backup.
type UsageReporter interface {
	Usage(ctx context.Context) (Usage, error)
}

// Usage is a best-effort byte count of both stores.
type Usage struct {
	Primary int64 `json:"primary"`
	Backup  int64 `json:"backup"`
}

// Total returns Primary + Backup.
func (u Usage) Total() int64 {
	return u.Primary + u.Backup
}

const backupSuffix = "_backup"

// BackupKey returns the key under which the backup copy of key is stored.
func BackupKey(key string) string {
	return key + backupSuffix
}

func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}
