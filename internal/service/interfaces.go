package service

import (
	"context"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// ManualEntry is a manually entered interval. Start and End are raw user
// input, parsed in the service location.
type ManualEntry struct {
	TaskID      string
	UserID      string
	Start       string
	End         string
	Description string
	Category    string
}

// TaskSummary aggregates one task's entries.
type TaskSummary struct {
	TaskID     string
	Entries    []domain.TimeEntry
	TotalTime  time.Duration
	EntryCount int
}

type LedgerService interface {
	AddManual(ctx context.Context, in ManualEntry) (*domain.TimeEntry, error)
	AddFromTimerStop(ctx context.Context, taskID, userID string, start, end time.Time) (*domain.TimeEntry, error)
	Update(ctx context.Context, id string, patch domain.EntryPatch) (*domain.TimeEntry, error)
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.TimeEntry, error)
	List(ctx context.Context) []domain.TimeEntry
	ListByTask(ctx context.Context, taskID string) []domain.TimeEntry
	ListByDateRange(ctx context.Context, start, end time.Time) []domain.TimeEntry
	TaskSummary(ctx context.Context, taskID string) TaskSummary
	Reload(ctx context.Context)
}

// TimerResult is the outcome of a timer transition.
type TimerResult struct {
	State domain.TimerState
	// Entry is the entry banked from the segment that ended, if any.
	Entry *domain.TimeEntry
	// Changed is false when the transition was a no-op.
	Changed bool
}

type TimerService interface {
	Start(ctx context.Context, taskID string) (TimerResult, error)
	Pause(ctx context.Context) (TimerResult, error)
	Resume(ctx context.Context) (TimerResult, error)
	Stop(ctx context.Context) (TimerResult, error)
	State() domain.TimerState
	CurrentElapsed() time.Duration
	ActiveSession() (*domain.ActiveSession, error)
	Watch(ctx context.Context, interval time.Duration) <-chan time.Duration
}

// ReportRequest selects the entries a report covers. A zero Start or End
// is filled from the period bounds around the current time.
type ReportRequest struct {
	UserID string
	Period domain.ReportPeriod
	Start  time.Time
	End    time.Time
}

type ReportService interface {
	Generate(ctx context.Context, req ReportRequest) (*domain.TimeReport, error)
}

// TaskCatalog supplies task titles for display and export labels. Task ids
// are never validated against it.
type TaskCatalog interface {
	Title(taskID string) string
}
