package storage

import (
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// Persisted shapes. Timestamps are RFC3339Nano in UTC, durations are
// integer milliseconds.

type entryRecord struct {
	ID          string `json:"id"`
	TaskID      string `json:"taskId"`
	UserID      string `json:"userId"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Duration    int64  `json:"duration"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	IsManual    bool   `json:"isManual"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type timerRecord struct {
	TaskID       *string `json:"taskId"`
	IsRunning    bool    `json:"isRunning"`
	StartTime    *string `json:"startTime"`
	PausedTime   int64   `json:"pausedTime"`
	TotalElapsed int64   `json:"totalElapsed"`
	LastUpdated  string  `json:"lastUpdated"`
}

type sessionRecord struct {
	ID           string `json:"id"`
	TaskID       string `json:"taskId"`
	UserID       string `json:"userId"`
	Status       string `json:"status"`
	StartedAt    string `json:"startTime"`
	LastActiveAt string `json:"lastActivity"`
}

type preferencesRecord struct {
	DefaultCategory     string `json:"defaultCategory"`
	ShowSeconds         bool   `json:"showSeconds"`
	ClockFormat         string `json:"clockFormat"`
	RoundManualToMinute bool   `json:"roundManualToMinute"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return t.UTC(), nil
}

func toEntryRecord(e domain.TimeEntry) entryRecord {
	return entryRecord{
		ID:          e.ID,
		TaskID:      e.TaskID,
		UserID:      e.UserID,
		StartTime:   formatTime(e.StartTime),
		EndTime:     formatTime(e.EndTime),
		Duration:    e.Duration.Milliseconds(),
		Description: e.Description,
		Category:    e.Category,
		IsManual:    e.IsManual,
		CreatedAt:   formatTime(e.CreatedAt),
		UpdatedAt:   formatTime(e.UpdatedAt),
	}
}

func (r entryRecord) toDomain() (domain.TimeEntry, error) {
	e := domain.TimeEntry{
		ID:          r.ID,
		TaskID:      r.TaskID,
		UserID:      r.UserID,
		Description: r.Description,
		Category:    r.Category,
		IsManual:    r.IsManual,
	}
	if e.ID == "" {
		return e, fmt.Errorf("entry without id")
	}
	var err error
	if e.StartTime, err = parseTime("startTime", r.StartTime); err != nil {
		return e, err
	}
	if e.EndTime, err = parseTime("endTime", r.EndTime); err != nil {
		return e, err
	}
	if !e.StartTime.Before(e.EndTime) {
		return e, fmt.Errorf("endTime %s is not after startTime %s", r.EndTime, r.StartTime)
	}
	// The stored duration is a cache; the interval is authoritative.
	e.Duration = e.EndTime.Sub(e.StartTime)
	if e.Duration > domain.MaxEntryDuration {
		return e, fmt.Errorf("entry spans %s, more than %s", e.Duration, domain.MaxEntryDuration)
	}
	if e.CreatedAt, err = parseTime("createdAt", r.CreatedAt); err != nil {
		return e, err
	}
	if e.UpdatedAt, err = parseTime("updatedAt", r.UpdatedAt); err != nil {
		e.UpdatedAt = e.CreatedAt
	}
	return e, nil
}

func toTimerRecord(s domain.TimerState) timerRecord {
	r := timerRecord{
		IsRunning:    s.IsRunning,
		PausedTime:   s.PausedTime.Milliseconds(),
		TotalElapsed: s.TotalElapsed.Milliseconds(),
		LastUpdated:  formatTime(s.LastUpdated),
	}
	if s.TaskID != "" {
		id := s.TaskID
		r.TaskID = &id
	}
	if s.StartTime != nil {
		st := formatTime(*s.StartTime)
		r.StartTime = &st
	}
	return r
}

func (r timerRecord) toDomain() (domain.TimerState, error) {
	s := domain.TimerState{
		IsRunning:    r.IsRunning,
		PausedTime:   time.Duration(r.PausedTime) * time.Millisecond,
		TotalElapsed: time.Duration(r.TotalElapsed) * time.Millisecond,
	}
	if r.TaskID != nil {
		s.TaskID = *r.TaskID
	}
	if r.StartTime != nil {
		st, err := parseTime("startTime", *r.StartTime)
		if err != nil {
			return s, err
		}
		s.StartTime = &st
	}
	if lu, err := parseTime("lastUpdated", r.LastUpdated); err == nil {
		s.LastUpdated = lu
	}
	if !s.Consistent() {
		return s, fmt.Errorf("running timer without task or start time")
	}
	return s, nil
}

func toSessionRecord(s domain.ActiveSession) sessionRecord {
	return sessionRecord{
		ID:           s.ID,
		TaskID:       s.TaskID,
		UserID:       s.UserID,
		Status:       string(s.Status),
		StartedAt:    formatTime(s.StartedAt),
		LastActiveAt: formatTime(s.LastActiveAt),
	}
}

func (r sessionRecord) toDomain() (domain.ActiveSession, error) {
	s := domain.ActiveSession{
		ID:     r.ID,
		TaskID: r.TaskID,
		UserID: r.UserID,
		Status: domain.TimerStatus(r.Status),
	}
	if s.ID == "" {
		return s, fmt.Errorf("session without id")
	}
	var err error
	if s.StartedAt, err = parseTime("startTime", r.StartedAt); err != nil {
		return s, err
	}
	if s.LastActiveAt, err = parseTime("lastActivity", r.LastActiveAt); err != nil {
		s.LastActiveAt = s.StartedAt
	}
	return s, nil
}

func toPreferencesRecord(p domain.Preferences) preferencesRecord {
	return preferencesRecord(p)
}

func (r preferencesRecord) toDomain() domain.Preferences {
	p := domain.Preferences(r)
	if p.ClockFormat == "" {
		p.ClockFormat = domain.DefaultPreferences().ClockFormat
	}
	return p
}
