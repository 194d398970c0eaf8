package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/taskflow/internal/timeutil"
)

// Validation messages, shown verbatim to users.
const (
	MsgTaskRequired       = "Task ID is required"
	MsgStartRequired      = "Start time is required"
	MsgEndRequired        = "End time is required"
	MsgInvalidStart       = "Invalid start time format"
	MsgInvalidEnd         = "Invalid end time format"
	MsgEndBeforeStart     = "End time must be after start time"
	MsgStartInFuture      = "Start time cannot be in the future"
	MsgEndInFuture        = "End time cannot be in the future"
	MsgTooLong            = "Time entry cannot exceed 24 hours"
	MsgDescriptionTooLong = "Description cannot exceed 500 characters"
)

// TimeInput is a timestamp as supplied by a caller. It keeps the raw text
// so that "missing" and "unparsable" can be told apart.
type TimeInput struct {
	Raw   string
	Value time.Time
}

// TimeOf wraps an already-parsed time.
func TimeOf(t time.Time) TimeInput {
	return TimeInput{Value: t}
}

// ParseTimeInput parses raw in loc. Unparsable input keeps a zero Value.
func ParseTimeInput(raw string, loc *time.Location) TimeInput {
	t, _ := timeutil.ParseTimestamp(raw, loc)
	return TimeInput{Raw: raw, Value: t}
}

// Missing reports whether nothing was supplied.
func (in TimeInput) Missing() bool {
	return strings.TrimSpace(in.Raw) == "" && in.Value.IsZero()
}

// Valid reports whether the input holds a usable time.
func (in TimeInput) Valid() bool {
	return !in.Value.IsZero()
}

// EntryDraft is an entry as submitted for creation, before an ID and
// bookkeeping timestamps are assigned.
type EntryDraft struct {
	TaskID      string
	UserID      string
	Start       TimeInput
	End         TimeInput
	Description string
	Category    string
}

// ValidationResult lists every rule a draft violates.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidationError carries a failed ValidationResult through error returns.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid time entry: " + strings.Join(e.Errors, "; ")
}

// Err returns nil for a valid result, otherwise a *ValidationError.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

// ValidateTimeEntry checks a draft against the entry rules relative to now.
// It never stops at the first violation.
func ValidateTimeEntry(d EntryDraft, now time.Time) ValidationResult {
	var errs []string

	if strings.TrimSpace(d.TaskID) == "" {
		errs = append(errs, MsgTaskRequired)
	}
	if d.Start.Missing() {
		errs = append(errs, MsgStartRequired)
	}
	if d.End.Missing() {
		errs = append(errs, MsgEndRequired)
	}

	if !d.Start.Missing() && !d.End.Missing() {
		if !d.Start.Valid() {
			errs = append(errs, MsgInvalidStart)
		}
		if !d.End.Valid() {
			errs = append(errs, MsgInvalidEnd)
		}
		if d.Start.Valid() && d.End.Valid() {
			start, end := d.Start.Value, d.End.Value
			if !start.Before(end) {
				errs = append(errs, MsgEndBeforeStart)
			}
			if start.After(now) {
				errs = append(errs, MsgStartInFuture)
			}
			if end.After(now) {
				errs = append(errs, MsgEndInFuture)
			}
			if end.Sub(start) > MaxEntryDuration {
				errs = append(errs, MsgTooLong)
			}
		}
	}

	if utf8.RuneCountInString(d.Description) > MaxDescriptionLength {
		errs = append(errs, MsgDescriptionTooLong)
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// ValidateEntry re-checks a stored entry, e.g. after an edit.
func ValidateEntry(e *TimeEntry, now time.Time) ValidationResult {
	return ValidateTimeEntry(EntryDraft{
		TaskID:      e.TaskID,
		UserID:      e.UserID,
		Start:       TimeOf(e.StartTime),
		End:         TimeOf(e.EndTime),
		Description: e.Description,
		Category:    e.Category,
	}, now)
}
