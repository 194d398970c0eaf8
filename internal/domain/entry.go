package domain

import "time"

// MaxEntryDuration bounds a single time entry.
const MaxEntryDuration = 24 * time.Hour

// MaxDescriptionLength is the longest accepted entry description, in characters.
const MaxDescriptionLength = 500

// TimeEntry is a completed interval of work on a task. Entries are
// immutable once created except for description and category edits.
type TimeEntry struct {
	ID          string
	TaskID      string
	UserID      string
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	Description string
	Category    string
	IsManual    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Span returns EndTime - StartTime. Duration is a cached copy of this value.
func (e *TimeEntry) Span() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// CategoryOrDefault returns the entry category, or UncategorizedLabel when unset.
func (e *TimeEntry) CategoryOrDefault() string {
	return CoalesceStr(e.Category, UncategorizedLabel)
}

// EntryPatch carries the editable fields of an entry. Nil fields are left untouched.
type EntryPatch struct {
	Description *string
	Category    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p EntryPatch) IsEmpty() bool {
	return p.Description == nil && p.Category == nil
}

// Apply merges the patch into e and stamps UpdatedAt.
func (p EntryPatch) Apply(e *TimeEntry, now time.Time) {
	e.Description = StrFromPtrWithDefault(e.Description, p.Description)
	e.Category = StrFromPtrWithDefault(e.Category, p.Category)
	e.UpdatedAt = now
}
