package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// MirroredStore writes to a primary store and mirrors every successful
// write to a backup under BackupKey(key). When the primary fails for any
// reason other than its quota, the write lands in the backup instead.
type MirroredStore struct {
	primary KeyValueStore
	backup  KeyValueStore
	logger  *slog.Logger
}

// NewMirroredStore composes primary and backup. backup may be nil.
func NewMirroredStore(primary, backup KeyValueStore, logger *slog.Logger) *MirroredStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MirroredStore{primary: primary, backup: backup, logger: logger}
}

// Get reads the primary, then the backup under the plain key (written while
// the primary was down), then the backup copy.
func (s *MirroredStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.primary.Get(ctx, key)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.WarnContext(ctx, "primary read failed", "key", key, "error", err)
	}
	if s.backup == nil {
		return "", err
	}
	if v, berr := s.backup.Get(ctx, key); berr == nil {
		return v, nil
	}
	return s.GetBackup(ctx, key)
}

// GetBackup reads only the mirrored copy of key.
func (s *MirroredStore) GetBackup(ctx context.Context, key string) (string, error) {
	if s.backup == nil {
		return "", fmt.Errorf("no backup store for %s: %w", key, ErrNotFound)
	}
	return s.backup.Get(ctx, BackupKey(key))
}

func (s *MirroredStore) Set(ctx context.Context, key, value string) error {
	err := s.primary.Set(ctx, key, value)
	if err == nil {
		if s.backup != nil {
			if berr := s.backup.Set(ctx, BackupKey(key), value); berr != nil {
				s.logger.WarnContext(ctx, "backup mirror failed", "key", key, "error", berr)
			}
		}
		return nil
	}
	if errors.Is(err, ErrQuotaExceeded) || s.backup == nil {
		return err
	}
	s.logger.WarnContext(ctx, "primary write failed, writing backup only", "key", key, "error", err)
	if berr := s.backup.Set(ctx, key, value); berr != nil {
		return fmt.Errorf("primary: %v; backup: %w", err, berr)
	}
	return nil
}

// Delete removes key from the primary and every copy from the backup.
func (s *MirroredStore) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if s.backup != nil {
		if berr := s.backup.Delete(ctx, key); berr != nil {
			s.logger.WarnContext(ctx, "backup delete failed", "key", key, "error", berr)
		}
		if berr := s.backup.Delete(ctx, BackupKey(key)); berr != nil {
			s.logger.WarnContext(ctx, "backup delete failed", "key", BackupKey(key), "error", berr)
		}
	}
	return err
}

func (s *MirroredStore) Size(ctx context.Context) (int64, error) {
	u, err := s.Usage(ctx)
	return u.Total(), err
}

// Usage measures both stores. A failing backup is reported as zero bytes.
func (s *MirroredStore) Usage(ctx context.Context) (Usage, error) {
	var u Usage
	p, err := s.primary.Size(ctx)
	if err != nil {
		return u, fmt.Errorf("measuring primary: %w", err)
	}
	u.Primary = p
	if s.backup != nil {
		b, berr := s.backup.Size(ctx)
		if berr != nil {
			s.logger.WarnContext(ctx, "measuring backup failed", "error", berr)
		} else {
			u.Backup = b
		}
	}
	return u, nil
}
