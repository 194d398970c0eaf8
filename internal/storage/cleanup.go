package storage

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/taskflow/internal/retry"
)

// writeWithQuotaRecovery writes encoded under key. On ErrQuotaExceeded it
// drops entries created before the retention cutoff and tries once more.
// When key is the entries collection itself, the pending payload is pruned
// too, since rewriting the stored copy alone would not free any space.
func (m *Manager) writeWithQuotaRecovery(ctx context.Context, key, encoded string) error {
	pruned := false
	cfg := retry.Config{
		MaxAttempts: 2,
		Retryable: func(err error) bool {
			return errors.Is(err, ErrQuotaExceeded)
		},
		OnRetry: func(_ int, err error) {
			m.logger.WarnContext(ctx, "storage quota exceeded, attempting cleanup", "key", key)
			if key == KeyTimeEntries {
				next := m.prunePayload(ctx, encoded)
				pruned = next != encoded
				encoded = next
				return
			}
			m.CleanupOldEntries(ctx)
		},
	}
	err := retry.Do(ctx, cfg, func() error {
		return m.store.Set(ctx, key, encoded)
	})
	if err == nil && pruned {
		m.entriesRev.Add(1)
	}
	return err
}

func (m *Manager) retentionCutoff() time.Time {
	return m.now().Add(-m.retention)
}

// prunePayload drops expired records from an encoded entries payload. The
// payload is returned unchanged when it cannot be decoded.
func (m *Manager) prunePayload(ctx context.Context, encoded string) string {
	var recs []entryRecord
	if err := decodeValue(encoded, &recs); err != nil {
		return encoded
	}
	kept, dropped := m.pruneRecords(recs)
	if dropped == 0 {
		return encoded
	}
	out, err := encodeValue(kept)
	if err != nil {
		return encoded
	}
	m.logger.WarnContext(ctx, "cleaned up old entries", "dropped", dropped, "kept", len(kept))
	return out
}

func (m *Manager) pruneRecords(recs []entryRecord) ([]entryRecord, int) {
	cutoff := m.retentionCutoff()
	kept := make([]entryRecord, 0, len(recs))
	for _, r := range recs {
		created, err := parseTime("createdAt", r.CreatedAt)
		if err != nil || !created.After(cutoff) {
			continue
		}
		kept = append(kept, r)
	}
	return kept, len(recs) - len(kept)
}

// CleanupOldEntries removes stored entries created before the retention
// cutoff and returns how many were dropped. The rewrite bypasses quota
// recovery so a cleanup can never trigger another cleanup.
func (m *Manager) CleanupOldEntries(ctx context.Context) int {
	recs, ok := load[[]entryRecord](ctx, m, KeyTimeEntries)
	if !ok {
		return 0
	}
	kept, dropped := m.pruneRecords(recs)
	if dropped == 0 {
		return 0
	}
	encoded, err := encodeValue(kept)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to encode pruned entries", "error", err)
		return 0
	}
	if err := m.store.Set(ctx, KeyTimeEntries, encoded); err != nil {
		m.logger.WarnContext(ctx, "failed to cleanup old entries", "error", err)
		return 0
	}
	m.entriesRev.Add(1)
	m.logger.WarnContext(ctx, "cleaned up old entries", "dropped", dropped, "kept", len(kept))
	return dropped
}
