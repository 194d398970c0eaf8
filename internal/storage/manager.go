package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// Logical keys. Each is mirrored under BackupKey(key).
const (
	KeyTimerState     = "taskflow_timer_state"
	KeyTimeEntries    = "taskflow_time_entries"
	KeyActiveSessions = "taskflow_active_sessions"
	KeyPreferences    = "taskflow_time_preferences"
)

// AllKeys lists the logical keys in persistence order.
var AllKeys = []string{KeyTimerState, KeyTimeEntries, KeyActiveSessions, KeyPreferences}

// DefaultRetention is how long entries survive a quota cleanup, measured
// from their creation time.
const DefaultRetention = 30 * 24 * time.Hour

// Manager is the typed, best-effort facade over a KeyValueStore. Writes
// report success as a bool and reads degrade to defaults; failures are
// logged and never returned to the caller.
type Manager struct {
	store     KeyValueStore
	logger    *slog.Logger
	now       func() time.Time
	retention time.Duration

	entriesRev atomic.Uint64
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithRetention sets the age past which entries are dropped by a quota
// cleanup. Non-positive values keep DefaultRetention.
func WithRetention(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.retention = d
		}
	}
}

// NewManager creates a Manager over store.
func NewManager(store KeyValueStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:     store,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		retention: DefaultRetention,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// set encodes value and writes it, running one cleanup-and-retry cycle on
// a quota error.
func (m *Manager) set(ctx context.Context, key string, value any) bool {
	encoded, err := encodeValue(value)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to encode value", "key", key, "error", err)
		return false
	}
	if err := m.writeWithQuotaRecovery(ctx, key, encoded); err != nil {
		m.logger.WarnContext(ctx, "failed to save to storage", "key", key, "error", err)
		return false
	}
	return true
}

// load reads key into a fresh T, falling back to the backup copy when the
// primary value is missing or cannot be decoded.
func load[T any](ctx context.Context, m *Manager, key string) (T, bool) {
	var zero T
	raw, err := m.store.Get(ctx, key)
	if err == nil {
		var v T
		derr := decodeValue(raw, &v)
		if derr == nil {
			return v, true
		}
		m.logger.WarnContext(ctx, "failed to decode stored value", "key", key, "error", derr)
	} else if !errors.Is(err, ErrNotFound) {
		m.logger.WarnContext(ctx, "failed to read from storage", "key", key, "error", err)
	}

	br, ok := m.store.(BackupReader)
	if !ok {
		return zero, false
	}
	raw, err = br.GetBackup(ctx, key)
	if err != nil {
		return zero, false
	}
	var v T
	if err := decodeValue(raw, &v); err != nil {
		m.logger.WarnContext(ctx, "failed to decode backup value", "key", key, "error", err)
		return zero, false
	}
	return v, true
}

func (m *Manager) remove(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, key); err != nil {
		m.logger.WarnContext(ctx, "failed to remove from storage", "key", key, "error", err)
	}
	if _, mirrored := m.store.(BackupReader); !mirrored {
		if err := m.store.Delete(ctx, BackupKey(key)); err != nil {
			m.logger.WarnContext(ctx, "failed to remove backup", "key", key, "error", err)
		}
	}
}

// --- Timer state ---

// TimerState returns the persisted timer, or an idle timer when nothing
// usable is stored.
func (m *Manager) TimerState(ctx context.Context) domain.TimerState {
	rec, ok := load[timerRecord](ctx, m, KeyTimerState)
	if !ok {
		return domain.NewIdleTimer(m.now())
	}
	s, err := rec.toDomain()
	if err != nil {
		m.logger.WarnContext(ctx, "discarding stored timer state", "error", err)
		return domain.NewIdleTimer(m.now())
	}
	return s
}

func (m *Manager) SaveTimerState(ctx context.Context, s domain.TimerState) bool {
	return m.set(ctx, KeyTimerState, toTimerRecord(s))
}

func (m *Manager) ClearTimerState(ctx context.Context) {
	m.remove(ctx, KeyTimerState)
}

// --- Time entries ---

// EntriesRevision changes whenever the manager rewrites the stored entries
// on its own: a retention cleanup, an import or a clear. Holders of an
// in-memory copy compare it to know when to reload.
func (m *Manager) EntriesRevision() uint64 {
	return m.entriesRev.Load()
}

// TimeEntries returns the stored entries newest first. Records that fail
// to parse are skipped.
func (m *Manager) TimeEntries(ctx context.Context) []domain.TimeEntry {
	recs, _ := load[[]entryRecord](ctx, m, KeyTimeEntries)
	return m.entriesFromRecords(ctx, recs)
}

func (m *Manager) entriesFromRecords(ctx context.Context, recs []entryRecord) []domain.TimeEntry {
	entries := make([]domain.TimeEntry, 0, len(recs))
	for _, r := range recs {
		e, err := r.toDomain()
		if err != nil {
			m.logger.WarnContext(ctx, "skipping malformed time entry", "id", r.ID, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

func (m *Manager) SaveTimeEntries(ctx context.Context, entries []domain.TimeEntry) bool {
	recs := make([]entryRecord, len(entries))
	for i, e := range entries {
		recs[i] = toEntryRecord(e)
	}
	return m.set(ctx, KeyTimeEntries, recs)
}

// AddOrReplaceTimeEntry upserts e by ID and keeps the collection sorted by
// CreatedAt, newest first.
func (m *Manager) AddOrReplaceTimeEntry(ctx context.Context, e domain.TimeEntry) bool {
	entries := m.TimeEntries(ctx)
	replaced := false
	for i := range entries {
		if entries[i].ID == e.ID {
			entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, e)
	}
	SortNewestFirst(entries)
	return m.SaveTimeEntries(ctx, entries)
}

// UpdateTimeEntry applies patch to the entry with the given id. It returns
// false when no such entry exists.
func (m *Manager) UpdateTimeEntry(ctx context.Context, id string, patch domain.EntryPatch) bool {
	entries := m.TimeEntries(ctx)
	for i := range entries {
		if entries[i].ID == id {
			patch.Apply(&entries[i], m.now().UTC())
			return m.SaveTimeEntries(ctx, entries)
		}
	}
	return false
}

func (m *Manager) RemoveTimeEntry(ctx context.Context, id string) bool {
	entries := m.TimeEntries(ctx)
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return m.SaveTimeEntries(ctx, kept)
}

func (m *Manager) TimeEntriesForTask(ctx context.Context, taskID string) []domain.TimeEntry {
	var out []domain.TimeEntry
	for _, e := range m.TimeEntries(ctx) {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out
}

// TimeEntriesForDateRange returns entries whose StartTime lies in
// [start, end], both ends inclusive.
func (m *Manager) TimeEntriesForDateRange(ctx context.Context, start, end time.Time) []domain.TimeEntry {
	var out []domain.TimeEntry
	for _, e := range m.TimeEntries(ctx) {
		if !e.StartTime.Before(start) && !e.StartTime.After(end) {
			out = append(out, e)
		}
	}
	return out
}

// SortNewestFirst orders entries by CreatedAt descending. Equal timestamps
// keep their relative order.
func SortNewestFirst(entries []domain.TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

// --- Active sessions ---

func (m *Manager) ActiveSessions(ctx context.Context) []domain.ActiveSession {
	recs, _ := load[[]sessionRecord](ctx, m, KeyActiveSessions)
	sessions := make([]domain.ActiveSession, 0, len(recs))
	for _, r := range recs {
		s, err := r.toDomain()
		if err != nil {
			m.logger.WarnContext(ctx, "skipping malformed session", "id", r.ID, "error", err)
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions
}

func (m *Manager) SaveActiveSessions(ctx context.Context, sessions []domain.ActiveSession) bool {
	recs := make([]sessionRecord, len(sessions))
	for i, s := range sessions {
		recs[i] = toSessionRecord(s)
	}
	return m.set(ctx, KeyActiveSessions, recs)
}

// AddActiveSession upserts s by ID.
func (m *Manager) AddActiveSession(ctx context.Context, s domain.ActiveSession) bool {
	sessions := m.ActiveSessions(ctx)
	for i := range sessions {
		if sessions[i].ID == s.ID {
			sessions[i] = s
			return m.SaveActiveSessions(ctx, sessions)
		}
	}
	return m.SaveActiveSessions(ctx, append(sessions, s))
}

func (m *Manager) RemoveActiveSession(ctx context.Context, id string) bool {
	sessions := m.ActiveSessions(ctx)
	kept := sessions[:0]
	for _, s := range sessions {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	return m.SaveActiveSessions(ctx, kept)
}

// --- Preferences ---

func (m *Manager) Preferences(ctx context.Context) domain.Preferences {
	rec, ok := load[preferencesRecord](ctx, m, KeyPreferences)
	if !ok {
		return domain.DefaultPreferences()
	}
	return rec.toDomain()
}

func (m *Manager) SavePreferences(ctx context.Context, p domain.Preferences) bool {
	return m.set(ctx, KeyPreferences, toPreferencesRecord(p))
}

// --- Maintenance ---

// UsageEstimate reports the bytes held by the primary and backup stores.
func (m *Manager) UsageEstimate(ctx context.Context) Usage {
	if ur, ok := m.store.(UsageReporter); ok {
		u, err := ur.Usage(ctx)
		if err != nil {
			m.logger.WarnContext(ctx, "failed to calculate storage usage", "error", err)
		}
		return u
	}
	n, err := m.store.Size(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to calculate storage usage", "error", err)
	}
	return Usage{Primary: n}
}

// ClearAll removes every logical key and its backup copy.
func (m *Manager) ClearAll(ctx context.Context) {
	for _, key := range AllKeys {
		m.remove(ctx, key)
	}
	m.entriesRev.Add(1)
}
