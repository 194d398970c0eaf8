package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T, store KeyValueStore) (*Manager, *testutil.FakeClock) {
	t.Helper()
	clock := testutil.NewFakeClock(testNow)
	return NewManager(store, WithClock(clock.Now)), clock
}

func runningTimer(taskID string, start time.Time) domain.TimerState {
	return domain.TimerState{
		TaskID:      taskID,
		IsRunning:   true,
		StartTime:   &start,
		LastUpdated: start,
	}
}

func TestManager_TimerStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemoryStore(0))

	state := runningTimer("task-1", testNow.Add(-time.Minute))
	state.PausedTime = 1500 * time.Millisecond
	require.True(t, m.SaveTimerState(ctx, state))

	assert.Equal(t, state, m.TimerState(ctx))

	m.ClearTimerState(ctx)
	assert.Equal(t, domain.NewIdleTimer(testNow), m.TimerState(ctx))
}

func TestManager_StoredValuesAreEncoded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	m, _ := newTestManager(t, store)
	require.True(t, m.SavePreferences(ctx, domain.DefaultPreferences()))

	raw, err := store.Get(ctx, KeyPreferences)
	require.NoError(t, err)
	assert.NotContains(t, raw, "defaultCategory")

	var rec preferencesRecord
	require.NoError(t, decodeValue(raw, &rec))
	assert.Equal(t, domain.DefaultCategory, rec.DefaultCategory)
}

func TestManager_ReadsRawJSONValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	m, _ := newTestManager(t, store)
	require.NoError(t, store.Set(ctx, KeyPreferences, `{"defaultCategory":"Meeting","showSeconds":false}`))

	p := m.Preferences(ctx)
	assert.Equal(t, "Meeting", p.DefaultCategory)
	assert.Equal(t, "clock", p.ClockFormat)
}

func TestManager_DecodeFailureFallsBackToBackup(t *testing.T) {
	ctx := context.Background()
	primary, backup := NewMemoryStore(0), NewMemoryStore(0)
	m, _ := newTestManager(t, NewMirroredStore(primary, backup, nil))

	state := runningTimer("task-1", testNow.Add(-time.Minute))
	require.True(t, m.SaveTimerState(ctx, state))
	require.NoError(t, primary.Set(ctx, KeyTimerState, "%%% corrupted %%%"))

	assert.Equal(t, state, m.TimerState(ctx))
}

func TestManager_TotalFailureReturnsDefaults(t *testing.T) {
	ctx := context.Background()
	store := &testutil.FailingStore{Store: NewMemoryStore(0), FailReads: true, Err: errors.New("io error")}
	m, _ := newTestManager(t, store)

	assert.False(t, m.SaveTimerState(ctx, runningTimer("task-1", testNow)))
	assert.Equal(t, domain.NewIdleTimer(testNow), m.TimerState(ctx))
	assert.Empty(t, m.TimeEntries(ctx))
	assert.Empty(t, m.ActiveSessions(ctx))
	assert.Equal(t, domain.DefaultPreferences(), m.Preferences(ctx))
}

func TestManager_InconsistentTimerIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	m, _ := newTestManager(t, store)
	require.NoError(t, store.Set(ctx, KeyTimerState, `{"taskId":null,"isRunning":true,"startTime":null}`))

	assert.Equal(t, domain.TimerIdle, m.TimerState(ctx).Status())
}

func TestManager_AddOrReplaceKeepsNewestFirst(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemoryStore(0))

	old := testutil.NewTestEntry("task-1", testNow.Add(-3*time.Hour), time.Hour)
	mid := testutil.NewTestEntry("task-2", testNow.Add(-2*time.Hour), time.Hour)
	recent := testutil.NewTestEntry("task-1", testNow.Add(-time.Hour), 30*time.Minute)

	require.True(t, m.AddOrReplaceTimeEntry(ctx, mid))
	require.True(t, m.AddOrReplaceTimeEntry(ctx, old))
	require.True(t, m.AddOrReplaceTimeEntry(ctx, recent))

	got := m.TimeEntries(ctx)
	require.Len(t, got, 3)
	assert.Equal(t, []string{recent.ID, mid.ID, old.ID}, []string{got[0].ID, got[1].ID, got[2].ID})

	mid.Description = "replaced"
	require.True(t, m.AddOrReplaceTimeEntry(ctx, mid))
	got = m.TimeEntries(ctx)
	require.Len(t, got, 3)
	assert.Equal(t, "replaced", got[1].Description)
}

func TestManager_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestManager(t, NewMemoryStore(0))
	e := testutil.NewTestEntry("task-1", testNow.Add(-2*time.Hour), time.Hour)
	require.True(t, m.SaveTimeEntries(ctx, []domain.TimeEntry{e}))

	desc := "code review"
	assert.False(t, m.UpdateTimeEntry(ctx, "missing", domain.EntryPatch{Description: &desc}))

	clock.Advance(time.Minute)
	require.True(t, m.UpdateTimeEntry(ctx, e.ID, domain.EntryPatch{Description: &desc}))
	got := m.TimeEntries(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, desc, got[0].Description)
	assert.Equal(t, testNow.Add(time.Minute), got[0].UpdatedAt)

	require.True(t, m.RemoveTimeEntry(ctx, "missing"))
	assert.Len(t, m.TimeEntries(ctx), 1)
	require.True(t, m.RemoveTimeEntry(ctx, e.ID))
	assert.Empty(t, m.TimeEntries(ctx))
}

func TestManager_Queries(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemoryStore(0))
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	a := testutil.NewTestEntry("task-1", day, time.Hour)
	b := testutil.NewTestEntry("task-2", day.Add(5*time.Hour), time.Hour)
	c := testutil.NewTestEntry("task-1", day.Add(30*time.Hour), time.Hour)
	require.True(t, m.SaveTimeEntries(ctx, []domain.TimeEntry{c, b, a}))

	byTask := m.TimeEntriesForTask(ctx, "task-1")
	assert.Len(t, byTask, 2)

	inRange := m.TimeEntriesForDateRange(ctx, day, day.Add(5*time.Hour))
	require.Len(t, inRange, 2, "both range ends are inclusive")
	assert.Equal(t, b.ID, inRange[0].ID)
	assert.Equal(t, a.ID, inRange[1].ID)
}

func TestManager_ActiveSessions(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemoryStore(0))
	s := domain.ActiveSession{ID: "s1", TaskID: "task-1", UserID: "user-1", Status: domain.TimerRunning, StartedAt: testNow, LastActiveAt: testNow}

	require.True(t, m.AddActiveSession(ctx, s))
	s.Status = domain.TimerPaused
	require.True(t, m.AddActiveSession(ctx, s))

	got := m.ActiveSessions(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, s, got[0])

	require.True(t, m.RemoveActiveSession(ctx, "s1"))
	assert.Empty(t, m.ActiveSessions(ctx))
}

// 1000 entries created over the last 60 days; the store only has room for
// the most recent half.
func TestManager_QuotaCleanupOnEntriesWrite(t *testing.T) {
	ctx := context.Background()

	entries := make([]domain.TimeEntry, 1000)
	for i := range entries {
		created := testNow.Add(-time.Duration(i) * 60 * 24 * time.Hour / 1000)
		entries[i] = testutil.NewTestEntry("task-1", created.Add(-30*time.Minute), 30*time.Minute)
	}
	cutoff := testNow.Add(-DefaultRetention)

	reference := NewMemoryStore(0)
	ref, _ := newTestManager(t, reference)
	require.True(t, ref.SaveTimeEntries(ctx, entries[:500]))
	recentSize, err := reference.Size(ctx)
	require.NoError(t, err)

	store := NewMemoryStore(recentSize)
	m, _ := newTestManager(t, store)

	assert.True(t, m.SaveTimeEntries(ctx, entries), "write is retried after cleanup")
	assert.Equal(t, uint64(1), m.EntriesRevision(), "a pruned save is visible to in-memory holders")

	got := m.TimeEntries(ctx)
	require.Len(t, got, 500)
	for _, e := range got {
		assert.True(t, e.CreatedAt.After(cutoff), "entry %s older than retention", e.ID)
	}
}

func TestManager_QuotaCleanupOnOtherKeyWrite(t *testing.T) {
	ctx := context.Background()
	old := testutil.NewTestEntry("task-1", testNow.Add(-45*24*time.Hour), time.Hour)
	recent := testutil.NewTestEntry("task-1", testNow.Add(-2*time.Hour), time.Hour)
	state := runningTimer("task-2", testNow)

	reference := NewMemoryStore(0)
	ref, _ := newTestManager(t, reference)
	require.True(t, ref.SaveTimeEntries(ctx, []domain.TimeEntry{recent, old}))
	require.True(t, ref.SaveTimerState(ctx, state))
	fullSize, err := reference.Size(ctx)
	require.NoError(t, err)

	m, _ := newTestManager(t, NewMemoryStore(fullSize-1))
	require.True(t, m.SaveTimeEntries(ctx, []domain.TimeEntry{recent, old}))

	assert.True(t, m.SaveTimerState(ctx, state))
	assert.Equal(t, state, m.TimerState(ctx))

	got := m.TimeEntries(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, recent.ID, got[0].ID)
}

func TestManager_QuotaFailureAfterCleanupReportsFalse(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemoryStore(1))

	assert.False(t, m.SaveTimerState(ctx, runningTimer("task-1", testNow)))
}

func TestManager_CleanupOldEntries(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemoryStore(0))
	old := testutil.NewTestEntry("task-1", testNow.Add(-40*24*time.Hour), time.Hour)
	recent := testutil.NewTestEntry("task-1", testNow.Add(-time.Hour), time.Hour)
	require.True(t, m.SaveTimeEntries(ctx, []domain.TimeEntry{recent, old}))

	rev := m.EntriesRevision()
	assert.Equal(t, 1, m.CleanupOldEntries(ctx))
	assert.Equal(t, rev+1, m.EntriesRevision())
	assert.Equal(t, 0, m.CleanupOldEntries(ctx))
	assert.Equal(t, rev+1, m.EntriesRevision(), "a no-op cleanup leaves the revision alone")
	assert.Len(t, m.TimeEntries(ctx), 1)

	require.True(t, m.SaveTimeEntries(ctx, m.TimeEntries(ctx)))
	assert.Equal(t, rev+1, m.EntriesRevision(), "plain saves do not bump the revision")
}

func TestManager_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestManager(t, NewMemoryStore(0))

	state := runningTimer("task-1", testNow.Add(-10*time.Minute))
	entries := []domain.TimeEntry{
		testutil.NewTestEntry("task-1", testNow.Add(-2*time.Hour), time.Hour, testutil.WithCategory("Testing")),
		testutil.NewTestEntry("task-2", testNow.Add(-5*time.Hour), 90*time.Minute, testutil.WithManual(), testutil.WithDescription("notes")),
	}
	session := domain.ActiveSession{ID: "s1", TaskID: "task-1", UserID: "user-1", Status: domain.TimerRunning, StartedAt: testNow, LastActiveAt: testNow}
	prefs := domain.Preferences{DefaultCategory: "Review", ShowSeconds: false, ClockFormat: "short", RoundManualToMinute: true}

	require.True(t, src.SaveTimerState(ctx, state))
	require.True(t, src.SaveTimeEntries(ctx, entries))
	require.True(t, src.AddActiveSession(ctx, session))
	require.True(t, src.SavePreferences(ctx, prefs))

	data, err := src.ExportData(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exportedAt"`)

	dst, _ := newTestManager(t, NewMemoryStore(0))
	require.True(t, dst.ImportData(ctx, data))

	assert.Equal(t, state, dst.TimerState(ctx))
	assert.Equal(t, entries, dst.TimeEntries(ctx))
	assert.Equal(t, []domain.ActiveSession{session}, dst.ActiveSessions(ctx))
	assert.Equal(t, prefs, dst.Preferences(ctx))
}

func TestManager_ImportSkipsMalformedSections(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemoryStore(0))
	existing := testutil.NewTestEntry("task-1", testNow.Add(-time.Hour), time.Hour)
	require.True(t, m.SaveTimeEntries(ctx, []domain.TimeEntry{existing}))

	doc := `{
		"timerState": {"taskId": "task-9", "isRunning": false, "pausedTime": 0, "totalElapsed": 5000, "lastUpdated": "2026-03-10T11:00:00Z"},
		"timeEntries": "not a list",
		"activeSessions": [{"id": "s1", "taskId": "task-9", "userId": "user-1", "status": "paused", "startTime": "2026-03-10T10:00:00Z", "lastActivity": "2026-03-10T11:00:00Z"}],
		"preferences": 42
	}`
	require.True(t, m.ImportData(ctx, []byte(doc)))

	state := m.TimerState(ctx)
	assert.Equal(t, "task-9", state.TaskID)
	assert.Equal(t, domain.TimerPaused, state.Status())
	assert.Equal(t, 5*time.Second, state.TotalElapsed)

	entries := m.TimeEntries(ctx)
	require.Len(t, entries, 1, "malformed entries section leaves stored entries alone")
	assert.Equal(t, existing.ID, entries[0].ID)

	assert.Len(t, m.ActiveSessions(ctx), 1)
	assert.Equal(t, domain.DefaultPreferences(), m.Preferences(ctx))
}

func TestManager_ImportSkipsEntriesWithInvalidIntervals(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemoryStore(0))

	doc := `{
		"timeEntries": [
			{"id": "backwards", "taskId": "task-1", "userId": "user-1", "startTime": "2026-03-10T10:00:00Z", "endTime": "2026-03-10T09:00:00Z", "duration": -3600000, "createdAt": "2026-03-10T10:00:00Z"},
			{"id": "empty", "taskId": "task-1", "userId": "user-1", "startTime": "2026-03-10T10:00:00Z", "endTime": "2026-03-10T10:00:00Z", "duration": 0, "createdAt": "2026-03-10T10:00:00Z"},
			{"id": "too-long", "taskId": "task-1", "userId": "user-1", "startTime": "2026-03-05T10:00:00Z", "endTime": "2026-03-09T10:00:00Z", "duration": 345600000, "createdAt": "2026-03-09T10:00:00Z"},
			{"id": "stale-duration", "taskId": "task-2", "userId": "user-1", "startTime": "2026-03-10T08:00:00Z", "endTime": "2026-03-10T09:30:00Z", "duration": -5, "createdAt": "2026-03-10T09:30:00Z"}
		]
	}`
	require.True(t, m.ImportData(ctx, []byte(doc)))

	entries := m.TimeEntries(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "stale-duration", entries[0].ID)
	assert.Equal(t, 90*time.Minute, entries[0].Duration, "duration follows the interval")
	for _, e := range entries {
		assert.True(t, e.StartTime.Before(e.EndTime))
		assert.LessOrEqual(t, e.EndTime.Sub(e.StartTime), domain.MaxEntryDuration)
	}
}

func TestManager_ImportRejectsInvalidJSON(t *testing.T) {
	m, _ := newTestManager(t, NewMemoryStore(0))
	assert.False(t, m.ImportData(context.Background(), []byte("{not json")))
}

func TestManager_ClearAllAndUsage(t *testing.T) {
	ctx := context.Background()
	primary, backup := NewMemoryStore(0), NewMemoryStore(0)
	m, _ := newTestManager(t, NewMirroredStore(primary, backup, nil))

	require.True(t, m.SaveTimerState(ctx, runningTimer("task-1", testNow)))
	require.True(t, m.SavePreferences(ctx, domain.DefaultPreferences()))

	u := m.UsageEstimate(ctx)
	assert.Positive(t, u.Primary)
	assert.Positive(t, u.Backup)

	m.ClearAll(ctx)
	assert.Empty(t, primary.Keys())
	assert.Empty(t, backup.Keys())
	assert.Zero(t, m.UsageEstimate(ctx).Total())
}
