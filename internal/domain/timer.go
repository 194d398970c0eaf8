package domain

import "time"

// TimerState is the single active timer of a user session.
// An empty TaskID means the timer is idle.
type TimerState struct {
	TaskID       string
	IsRunning    bool
	StartTime    *time.Time
	PausedTime   time.Duration
	TotalElapsed time.Duration
	LastUpdated  time.Time
}

// NewIdleTimer returns the idle state a session starts in.
func NewIdleTimer(now time.Time) TimerState {
	return TimerState{LastUpdated: now}
}

// Status derives the state-machine state from the raw fields.
func (s TimerState) Status() TimerStatus {
	switch {
	case s.IsRunning:
		return TimerRunning
	case s.TaskID != "":
		return TimerPaused
	default:
		return TimerIdle
	}
}

// Consistent reports whether the running invariant holds:
// a running timer always has a task and a start time.
func (s TimerState) Consistent() bool {
	if !s.IsRunning {
		return true
	}
	return s.TaskID != "" && s.StartTime != nil
}
