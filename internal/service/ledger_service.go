package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/storage"
	"github.com/alexanderramin/taskflow/internal/timeutil"
	"github.com/google/uuid"
)

var (
	// ErrEntryNotFound is returned when no entry matches an id or id prefix.
	ErrEntryNotFound = errors.New("time entry not found")
	// ErrAmbiguousID is returned when an id prefix matches several entries.
	ErrAmbiguousID = errors.New("ambiguous time entry id")
)

// minPrefixLen is the shortest id prefix Get will resolve.
const minPrefixLen = 4

// ledgerService keeps the canonical newest-first entry collection in
// memory. Every mutation is persisted best-effort; when persistence fails
// the in-memory collection stays authoritative for the process lifetime.
// When the store rewrites entries itself (quota cleanup, import, clear)
// the collection is reloaded before it is next used.
type ledgerService struct {
	mu      sync.RWMutex
	store   *storage.Manager
	entries []domain.TimeEntry
	rev     uint64
	opts    options
}

// NewLedgerService loads the stored entries and returns a ledger over them.
func NewLedgerService(ctx context.Context, store *storage.Manager, opts ...Option) LedgerService {
	l := &ledgerService{store: store, opts: buildOptions(opts)}
	l.Reload(ctx)
	return l
}

// Reload replaces the in-memory collection with the stored one.
func (l *ledgerService) Reload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reloadLocked(ctx)
}

func (l *ledgerService) reloadLocked(ctx context.Context) {
	rev := l.store.EntriesRevision()
	entries := l.store.TimeEntries(ctx)
	storage.SortNewestFirst(entries)
	l.entries = entries
	l.rev = rev
}

// sync reloads the collection if the store has rewritten it since the
// last load.
func (l *ledgerService) sync(ctx context.Context) {
	l.mu.RLock()
	stale := l.rev != l.store.EntriesRevision()
	l.mu.RUnlock()
	if !stale {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.syncLocked(ctx)
}

func (l *ledgerService) syncLocked(ctx context.Context) {
	if l.rev != l.store.EntriesRevision() {
		l.reloadLocked(ctx)
	}
}

func (l *ledgerService) AddManual(ctx context.Context, in ManualEntry) (entry *domain.TimeEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": in.TaskID}
	defer observe(ctx, l.opts.observer, "add-manual-entry", startedAt, fields, &err)

	prefs := l.store.Preferences(ctx)
	start := domain.ParseTimeInput(in.Start, l.opts.location)
	end := domain.ParseTimeInput(in.End, l.opts.location)
	if prefs.RoundManualToMinute {
		start.Value = roundIfSet(start.Value)
		end.Value = roundIfSet(end.Value)
	}

	draft := domain.EntryDraft{
		TaskID:      strings.TrimSpace(in.TaskID),
		UserID:      in.UserID,
		Start:       start,
		End:         end,
		Description: strings.TrimSpace(in.Description),
		Category:    domain.CoalesceStr(strings.TrimSpace(in.Category), prefs.DefaultCategory),
	}
	entry, err = l.create(ctx, draft, true)
	if entry != nil {
		fields["entry_id"] = entry.ID
	}
	return entry, err
}

func roundIfSet(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return timeutil.RoundToNearestMinute(t)
}

// AddFromTimerStop banks a finished timer segment. Segments with no elapsed
// time are discarded and yield a nil entry and nil error.
func (l *ledgerService) AddFromTimerStop(ctx context.Context, taskID, userID string, start, end time.Time) (entry *domain.TimeEntry, err error) {
	if !end.Truncate(time.Millisecond).After(start.Truncate(time.Millisecond)) {
		return nil, nil
	}
	startedAt := time.Now()
	fields := map[string]any{"task_id": taskID}
	defer observe(ctx, l.opts.observer, "add-timer-entry", startedAt, fields, &err)

	entry, err = l.create(ctx, domain.EntryDraft{
		TaskID: taskID,
		UserID: userID,
		Start:  domain.TimeOf(start),
		End:    domain.TimeOf(end),
	}, false)
	if entry != nil {
		fields["duration_ms"] = entry.Duration.Milliseconds()
	}
	return entry, err
}

func (l *ledgerService) create(ctx context.Context, d domain.EntryDraft, manual bool) (*domain.TimeEntry, error) {
	now := l.opts.now()
	if res := domain.ValidateTimeEntry(d, now); !res.Valid {
		return nil, res.Err()
	}

	start := d.Start.Value.UTC().Truncate(time.Millisecond)
	end := d.End.Value.UTC().Truncate(time.Millisecond)
	created := now.UTC().Truncate(time.Millisecond)
	e := domain.TimeEntry{
		ID:          uuid.New().String(),
		TaskID:      d.TaskID,
		UserID:      d.UserID,
		StartTime:   start,
		EndTime:     end,
		Duration:    end.Sub(start),
		Description: d.Description,
		Category:    d.Category,
		IsManual:    manual,
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	l.mu.Lock()
	l.syncLocked(ctx)
	l.entries = append([]domain.TimeEntry{e}, l.entries...)
	storage.SortNewestFirst(l.entries)
	l.persistLocked(ctx)
	l.mu.Unlock()
	return &e, nil
}

// Update applies patch to the entry with the given id. It returns a nil
// entry and nil error when the id is unknown.
func (l *ledgerService) Update(ctx context.Context, id string, patch domain.EntryPatch) (entry *domain.TimeEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"entry_id": id}
	defer observe(ctx, l.opts.observer, "update-entry", startedAt, fields, &err)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.syncLocked(ctx)

	idx := l.indexLocked(id)
	if idx < 0 {
		return nil, nil
	}
	if patch.IsEmpty() {
		e := l.entries[idx]
		return &e, nil
	}

	now := l.opts.now()
	updated := l.entries[idx]
	patch.Apply(&updated, now.UTC().Truncate(time.Millisecond))
	if res := domain.ValidateEntry(&updated, now); !res.Valid {
		return nil, res.Err()
	}
	l.entries[idx] = updated
	l.persistLocked(ctx)
	return &updated, nil
}

// Remove deletes the entry with the given id. Unknown ids are a no-op.
func (l *ledgerService) Remove(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"entry_id": id}
	defer observe(ctx, l.opts.observer, "remove-entry", startedAt, fields, &err)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.syncLocked(ctx)

	idx := l.indexLocked(id)
	if idx < 0 {
		fields["found"] = false
		return nil
	}
	l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
	l.persistLocked(ctx)
	return nil
}

// Get returns the entry with the given id, or the single entry whose id
// starts with it.
func (l *ledgerService) Get(ctx context.Context, id string) (*domain.TimeEntry, error) {
	l.sync(ctx)
	l.mu.RLock()
	defer l.mu.RUnlock()

	if idx := l.indexLocked(id); idx >= 0 {
		e := l.entries[idx]
		return &e, nil
	}
	if len(id) < minPrefixLen {
		return nil, fmt.Errorf("%s: %w", id, ErrEntryNotFound)
	}
	var match *domain.TimeEntry
	for i := range l.entries {
		if strings.HasPrefix(l.entries[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("%s: %w", id, ErrAmbiguousID)
			}
			e := l.entries[i]
			match = &e
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrEntryNotFound)
	}
	return match, nil
}

func (l *ledgerService) List(ctx context.Context) []domain.TimeEntry {
	l.sync(ctx)
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.TimeEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *ledgerService) ListByTask(ctx context.Context, taskID string) []domain.TimeEntry {
	return l.filter(ctx, func(e domain.TimeEntry) bool { return e.TaskID == taskID })
}

// ListByDateRange returns entries whose start lies in [start, end].
func (l *ledgerService) ListByDateRange(ctx context.Context, start, end time.Time) []domain.TimeEntry {
	return l.filter(ctx, func(e domain.TimeEntry) bool {
		return !e.StartTime.Before(start) && !e.StartTime.After(end)
	})
}

func (l *ledgerService) TaskSummary(ctx context.Context, taskID string) TaskSummary {
	entries := l.ListByTask(ctx, taskID)
	s := TaskSummary{TaskID: taskID, Entries: entries, EntryCount: len(entries)}
	for _, e := range entries {
		s.TotalTime += e.Duration
	}
	return s
}

func (l *ledgerService) filter(ctx context.Context, keep func(domain.TimeEntry) bool) []domain.TimeEntry {
	l.sync(ctx)
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []domain.TimeEntry
	for _, e := range l.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (l *ledgerService) indexLocked(id string) int {
	for i := range l.entries {
		if l.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked saves the collection. A save that pruned expired entries
// to fit the quota leaves the stored copy smaller, so the collection is
// reloaded to match it.
func (l *ledgerService) persistLocked(ctx context.Context) {
	if !l.store.SaveTimeEntries(ctx, l.entries) {
		l.opts.logger.WarnContext(ctx, "time entries not persisted, keeping them in memory", "count", len(l.entries))
		return
	}
	l.syncLocked(ctx)
}
