package testutil

import (
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/google/uuid"
)

// DefaultUserID is the user fixtures belong to unless overridden.
const DefaultUserID = "user-1"

// Entry options
type EntryOption func(*domain.TimeEntry)

func WithEntryID(id string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.ID = id
	}
}

func WithUserID(id string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.UserID = id
	}
}

func WithCategory(c string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.Category = c
	}
}

func WithDescription(d string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.Description = d
	}
}

func WithCreatedAt(t time.Time) EntryOption {
	return func(e *domain.TimeEntry) {
		e.CreatedAt = t
		e.UpdatedAt = t
	}
}

func WithManual() EntryOption {
	return func(e *domain.TimeEntry) {
		e.IsManual = true
	}
}

// NewTestEntry builds an entry on taskID starting at start and lasting d.
// CreatedAt and UpdatedAt default to the end of the interval.
func NewTestEntry(taskID string, start time.Time, d time.Duration, opts ...EntryOption) domain.TimeEntry {
	end := start.Add(d)
	e := domain.TimeEntry{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    DefaultUserID,
		StartTime: start,
		EndTime:   end,
		Duration:  d,
		CreatedAt: end,
		UpdatedAt: end,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
