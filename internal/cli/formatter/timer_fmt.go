package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// TimerView is everything the status box shows about the timer.
type TimerView struct {
	State       domain.TimerState
	Elapsed     time.Duration
	TaskTitle   string
	ShowSeconds bool
	Location    *time.Location
	// Session is the live session record, nil when none was found.
	Session *domain.ActiveSession
}

// FormatTimerStatus renders the timer as a small status box.
func FormatTimerStatus(v TimerView) string {
	var b strings.Builder
	status := v.State.Status()

	b.WriteString(TimerIndicator(status) + "\n\n")
	if status == domain.TimerIdle {
		b.WriteString(Dim("No timer running. Start one with `taskflow timer start <task-id>`.") + "\n")
		return RenderBox("Timer", b.String())
	}

	loc := v.Location
	if loc == nil {
		loc = time.Local
	}

	title := v.TaskTitle
	if title == "" {
		title = v.State.TaskID
	}
	fmt.Fprintf(&b, "%s  %s\n", Dim("Task:   "), Bold(title))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Elapsed:"), TimerStatusStyle(status).Render(Clock(v.Elapsed, v.ShowSeconds)))
	if v.State.StartTime != nil {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Since:  "), StyleFg.Render(v.State.StartTime.In(loc).Format("15:04:05")))
	}
	if v.State.PausedTime > 0 {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Paused: "), StyleFg.Render(Short(v.State.PausedTime)))
	}
	if v.Session != nil && v.Session.ID != "" {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Session:"), StyleFg.Render(shortID(v.Session.ID)))
	}

	return RenderBox("Timer", b.String())
}

// FormatTransition renders the one-line outcome of a timer command. A
// banked entry is mentioned with its duration.
func FormatTransition(verb string, changed bool, state domain.TimerState, banked *domain.TimeEntry) string {
	if !changed {
		return Dim(fmt.Sprintf("Nothing to %s (timer is %s).", verb, state.Status()))
	}
	line := fmt.Sprintf("%s %s", StyleGreen.Render("✔"), timerVerbPast(verb))
	if state.TaskID != "" {
		line += " " + Bold(state.TaskID)
	}
	if banked != nil {
		line += Dim(fmt.Sprintf(" (logged %s as %s)", Short(banked.Duration), shortID(banked.ID)))
	}
	return line
}

func timerVerbPast(verb string) string {
	switch verb {
	case "start":
		return "Started"
	case "pause":
		return "Paused"
	case "resume":
		return "Resumed"
	case "stop":
		return "Stopped"
	default:
		return verb
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
