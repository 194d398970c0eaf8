package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/storage"
	"github.com/stretchr/testify/assert"
)

var fmtNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestFormatTimerStatus_Idle(t *testing.T) {
	out := stripANSI(FormatTimerStatus(TimerView{State: domain.NewIdleTimer(fmtNow)}))
	assert.Contains(t, out, "IDLE")
	assert.Contains(t, out, "No timer running")
}

func TestFormatTimerStatus_Running(t *testing.T) {
	start := fmtNow.Add(-90 * time.Second)
	out := stripANSI(FormatTimerStatus(TimerView{
		State: domain.TimerState{
			TaskID:     "task-1",
			IsRunning:  true,
			StartTime:  &start,
			PausedTime: 5 * time.Minute,
		},
		Elapsed:     90 * time.Second,
		TaskTitle:   "Write docs",
		ShowSeconds: true,
		Location:    time.UTC,
		Session:     &domain.ActiveSession{ID: "abcdef0123456789"},
	}))

	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "abcdef01")
	assert.Contains(t, out, "Write docs")
	assert.Contains(t, out, "00:01:30")
	assert.Contains(t, out, "11:58:30")
	assert.Contains(t, out, "5m")
}

func TestFormatTimerStatus_PausedFallsBackToTaskID(t *testing.T) {
	out := stripANSI(FormatTimerStatus(TimerView{
		State:   domain.TimerState{TaskID: "task-9", TotalElapsed: time.Minute},
		Elapsed: time.Minute,
	}))
	assert.Contains(t, out, "PAUSED")
	assert.Contains(t, out, "task-9")
	assert.Contains(t, out, "00:01")
}

func TestFormatTransition(t *testing.T) {
	state := domain.TimerState{TaskID: "task-1"}
	banked := &domain.TimeEntry{ID: "0123456789abcdef", Duration: 30 * time.Minute}

	out := stripANSI(FormatTransition("pause", true, state, banked))
	assert.Contains(t, out, "Paused task-1")
	assert.Contains(t, out, "logged 30m as 01234567")

	out = stripANSI(FormatTransition("resume", false, domain.NewIdleTimer(fmtNow), nil))
	assert.Equal(t, "Nothing to resume (timer is idle).", out)
}

func TestFormatEntryList(t *testing.T) {
	entries := []domain.TimeEntry{
		{
			ID: "aaaaaaaa-1", TaskID: "task-1",
			StartTime: fmtNow.Add(-2 * time.Hour), EndTime: fmtNow.Add(-time.Hour), Duration: time.Hour,
			Category: "Development", Description: "Refactoring the storage layer and its many many tests",
		},
		{
			ID: "bbbbbbbb-2", TaskID: "task-2", IsManual: true,
			StartTime: fmtNow.Add(-26 * time.Hour), EndTime: fmtNow.Add(-25*time.Hour - 30*time.Minute), Duration: 30 * time.Minute,
		},
	}
	out := stripANSI(FormatEntryList(entries, EntryListOptions{
		Title:    func(id string) string { return map[string]string{"task-1": "Storage"}[id] },
		Location: time.UTC,
		Now:      fmtNow,
	}))

	assert.Contains(t, out, "aaaaaaaa")
	assert.Contains(t, out, "Storage")
	assert.Contains(t, out, "task-2")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Yesterday")
	assert.Contains(t, out, "10:00")
	assert.Contains(t, out, "(manual)")
	assert.Contains(t, out, "…")
	assert.Contains(t, out, "Total: 1h 30m across 2 entries")
}

func TestFormatEntryList_Empty(t *testing.T) {
	assert.Contains(t, FormatEntryList(nil, EntryListOptions{}), "No time entries.")
}

func TestFormatEntry(t *testing.T) {
	e := domain.TimeEntry{
		ID: "entry-1", TaskID: "task-1",
		StartTime: fmtNow.Add(-time.Hour), EndTime: fmtNow, Duration: time.Hour,
	}
	out := stripANSI(FormatEntry(e, "", time.UTC))
	assert.Contains(t, out, "task-1")
	assert.Contains(t, out, "01:00:00")
	assert.Contains(t, out, domain.UncategorizedLabel)
	assert.Contains(t, out, "timer")
	assert.NotContains(t, out, "Description:")
}

func TestFormatCategories(t *testing.T) {
	out := stripANSI(FormatCategories(domain.TimeCategories, domain.DefaultCategory))
	assert.Contains(t, out, "Development (default)")
	assert.Contains(t, out, "○ Bug Fix")
}

func TestFormatReport(t *testing.T) {
	rep := &domain.TimeReport{
		Window: domain.ReportWindow{
			Start: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC),
			Period: domain.PeriodWeek,
		},
		Entries:            make([]domain.TimeEntry, 2),
		TotalTime:          80 * time.Minute,
		TaskBreakdown:      []domain.TaskBreakdown{{TaskID: "task-1", TaskTitle: "Write docs", TotalTime: time.Hour, EntryCount: 1}},
		DailyBreakdown:     []domain.DailyBreakdown{{Date: "2026-03-09", TotalTime: time.Hour, EntryCount: 1}},
		CategoryBreakdown:  []domain.CategoryBreakdown{{Category: "Development", TotalTime: time.Hour, Percentage: 75}},
		AverageSessionTime: 40 * time.Minute,
		ProductivityScore:  73,
		MostProductiveHour: 14,
	}

	out := stripANSI(FormatReport(rep, time.UTC))
	assert.Contains(t, out, "WEEK REPORT")
	assert.Contains(t, out, "2026-03-09")
	assert.Contains(t, out, "2026-03-15")
	assert.Contains(t, out, "1h 20m")
	assert.Contains(t, out, "Write docs")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "14:00")
	assert.Contains(t, out, "73%")
}

func TestFormatReport_Empty(t *testing.T) {
	rep := &domain.TimeReport{Window: domain.ReportWindow{Period: domain.PeriodDay}}
	assert.Contains(t, stripANSI(FormatReport(rep, time.UTC)), "No time tracked in this period.")
}

func TestFormatUsage(t *testing.T) {
	out := stripANSI(FormatUsage(storage.Usage{Primary: 2048, Backup: 1024}, 4096))
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "3.0 KiB")
	assert.Contains(t, out, " 50%")

	assert.NotContains(t, stripANSI(FormatUsage(storage.Usage{}, 0)), "Quota")
}
