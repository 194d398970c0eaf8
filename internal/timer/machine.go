// Package timer implements the timer state machine as a pure reducer over
// domain.TimerState snapshots. It performs no I/O: callers persist the
// resulting state and bank any emitted Segment as a time entry.
package timer

import (
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/timeutil"
)

type Action string

const (
	ActionStart  Action = "start"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionStop   Action = "stop"
)

// Event is one requested transition. TaskID is only read by ActionStart.
type Event struct {
	Action Action
	TaskID string
}

func Start(taskID string) Event { return Event{Action: ActionStart, TaskID: taskID} }
func Pause() Event              { return Event{Action: ActionPause} }
func Resume() Event             { return Event{Action: ActionResume} }
func Stop() Event               { return Event{Action: ActionStop} }

// Segment is one contiguous running interval that ended with the transition.
type Segment struct {
	TaskID  string
	Start   time.Time
	End     time.Time
	Elapsed time.Duration
	// Capped is set when the interval was cut to domain.MaxEntryDuration.
	Capped bool
}

// Transition is the outcome of applying an Event.
type Transition struct {
	State domain.TimerState
	// Segment is non-nil when a running interval ended and should be banked.
	Segment *Segment
	// Changed is false when the event was a no-op for the current state.
	Changed bool
}

// Apply is total: every event is defined for every state, and events that
// make no sense in the current state return it unchanged.
func Apply(s domain.TimerState, ev Event, now time.Time) Transition {
	switch ev.Action {
	case ActionStart:
		return start(s, ev.TaskID, now)
	case ActionPause:
		return pause(s, now)
	case ActionResume:
		return resume(s, now)
	case ActionStop:
		return stop(s, now)
	default:
		return Transition{State: s}
	}
}

func start(s domain.TimerState, taskID string, now time.Time) Transition {
	taskID = domain.CoalesceStr(taskID, s.TaskID)
	if taskID == "" {
		return Transition{State: s}
	}

	startedAt := now
	next := domain.TimerState{
		TaskID:      taskID,
		IsRunning:   true,
		StartTime:   &startedAt,
		LastUpdated: now,
	}
	return Transition{State: next, Segment: closeSegment(s, now), Changed: true}
}

func pause(s domain.TimerState, now time.Time) Transition {
	if !s.IsRunning || s.StartTime == nil {
		return Transition{State: s}
	}

	next := s
	next.IsRunning = false
	next.TotalElapsed = timeutil.ElapsedSince(*s.StartTime, s.PausedTime, now)
	next.LastUpdated = now
	return Transition{State: next, Segment: closeSegment(s, now), Changed: true}
}

func resume(s domain.TimerState, now time.Time) Transition {
	if s.IsRunning || s.TaskID == "" {
		return Transition{State: s}
	}

	startedAt := now
	next := s
	next.IsRunning = true
	next.StartTime = &startedAt
	next.PausedTime = 0
	next.LastUpdated = now
	return Transition{State: next, Changed: true}
}

func stop(s domain.TimerState, now time.Time) Transition {
	if s.Status() == domain.TimerIdle && s.StartTime == nil {
		return Transition{State: s}
	}
	return Transition{
		State:   domain.NewIdleTimer(now),
		Segment: closeSegment(s, now),
		Changed: true,
	}
}

// closeSegment returns the running interval of s ending at now, or nil when
// s is not running or nothing elapsed.
func closeSegment(s domain.TimerState, now time.Time) *Segment {
	if !s.IsRunning || s.StartTime == nil || s.TaskID == "" {
		return nil
	}
	elapsed := timeutil.ElapsedSince(*s.StartTime, s.PausedTime, now)
	if elapsed <= 0 {
		return nil
	}

	seg := &Segment{TaskID: s.TaskID, Start: *s.StartTime, Elapsed: elapsed}
	if elapsed > domain.MaxEntryDuration {
		seg.Elapsed = domain.MaxEntryDuration
		seg.Capped = true
	}
	seg.End = seg.Start.Add(seg.Elapsed)
	return seg
}

// Elapsed is the value to display for s at now: the live segment time while
// running, otherwise the frozen total.
func Elapsed(s domain.TimerState, now time.Time) time.Duration {
	if !s.IsRunning || s.StartTime == nil {
		return s.TotalElapsed
	}
	return timeutil.ElapsedSince(*s.StartTime, s.PausedTime, now)
}

// Tick refreshes the display snapshot of a running timer. The result is
// never persisted; state is always reconstructible from StartTime and
// PausedTime.
func Tick(s domain.TimerState, now time.Time) domain.TimerState {
	if !s.IsRunning {
		return s
	}
	s.TotalElapsed = Elapsed(s, now)
	s.LastUpdated = now
	return s
}
