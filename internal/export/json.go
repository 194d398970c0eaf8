package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// EntryJSON is the exported shape of a time entry. Durations are
// milliseconds.
type EntryJSON struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	UserID      string    `json:"userId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Duration    int64     `json:"duration"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	IsManual    bool      `json:"isManual"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func entryJSON(e domain.TimeEntry) EntryJSON {
	return EntryJSON{
		ID:          e.ID,
		TaskID:      e.TaskID,
		UserID:      e.UserID,
		StartTime:   e.StartTime.UTC(),
		EndTime:     e.EndTime.UTC(),
		Duration:    e.Duration.Milliseconds(),
		Description: e.Description,
		Category:    e.Category,
		IsManual:    e.IsManual,
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}

func entriesJSON(entries []domain.TimeEntry) []EntryJSON {
	out := make([]EntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON(e))
	}
	return out
}

// TaskEntries is one task's entries as exported from the task view.
type TaskEntries struct {
	TaskID     string
	TaskTitle  string
	Entries    []domain.TimeEntry
	TotalTime  time.Duration
	ExportedAt time.Time
}

type taskEntriesDoc struct {
	TaskID     string      `json:"taskId"`
	TaskTitle  string      `json:"taskTitle"`
	Entries    []EntryJSON `json:"entries"`
	TotalTime  int64       `json:"totalTime"`
	EntryCount int         `json:"entryCount"`
	ExportedAt time.Time   `json:"exportedAt"`
}

// WriteTaskEntriesJSON writes te as an indented JSON document.
func WriteTaskEntriesJSON(w io.Writer, te TaskEntries) error {
	doc := taskEntriesDoc{
		TaskID:     te.TaskID,
		TaskTitle:  te.TaskTitle,
		Entries:    entriesJSON(te.Entries),
		TotalTime:  te.TotalTime.Milliseconds(),
		EntryCount: len(te.Entries),
		ExportedAt: te.ExportedAt.UTC(),
	}
	return writeJSON(w, doc)
}

type reportDoc struct {
	Metadata struct {
		Title        string    `json:"title"`
		GeneratedAt  time.Time `json:"generatedAt"`
		ReportPeriod struct {
			Start       time.Time `json:"start"`
			End         time.Time `json:"end"`
			Granularity string    `json:"granularity"`
		} `json:"reportPeriod"`
	} `json:"metadata"`
	UserID             string        `json:"userId"`
	TotalTime          int64         `json:"totalTime"`
	EntryCount         int           `json:"entryCount"`
	AverageSessionTime int64         `json:"averageSessionTime"`
	ProductivityScore  int           `json:"productivityScore"`
	MostProductiveHour int           `json:"mostProductiveHour"`
	TaskBreakdown      []taskRow     `json:"taskBreakdown"`
	DailyBreakdown     []dailyRow    `json:"dailyBreakdown"`
	CategoryBreakdown  []categoryRow `json:"categoryBreakdown"`
	Entries            []EntryJSON   `json:"entries"`
}

type taskRow struct {
	TaskID     string `json:"taskId"`
	TaskTitle  string `json:"taskTitle"`
	TotalTime  int64  `json:"totalTime"`
	EntryCount int    `json:"entryCount"`
}

type dailyRow struct {
	Date       string `json:"date"`
	TotalTime  int64  `json:"totalTime"`
	EntryCount int    `json:"entryCount"`
}

type categoryRow struct {
	Category   string  `json:"category"`
	TotalTime  int64   `json:"totalTime"`
	Percentage float64 `json:"percentage"`
}

// WriteReportJSON writes rep with a metadata header.
func WriteReportJSON(w io.Writer, rep *domain.TimeReport, meta Meta) error {
	var doc reportDoc
	doc.Metadata.Title = meta.title()
	doc.Metadata.GeneratedAt = meta.GeneratedAt.UTC()
	doc.Metadata.ReportPeriod.Start = rep.Window.Start.UTC()
	doc.Metadata.ReportPeriod.End = rep.Window.End.UTC()
	doc.Metadata.ReportPeriod.Granularity = string(rep.Window.Period)

	doc.UserID = rep.UserID
	doc.TotalTime = rep.TotalTime.Milliseconds()
	doc.EntryCount = len(rep.Entries)
	doc.AverageSessionTime = rep.AverageSessionTime.Milliseconds()
	doc.ProductivityScore = rep.ProductivityScore
	doc.MostProductiveHour = rep.MostProductiveHour
	doc.Entries = entriesJSON(rep.Entries)

	doc.TaskBreakdown = make([]taskRow, 0, len(rep.TaskBreakdown))
	for _, t := range rep.TaskBreakdown {
		doc.TaskBreakdown = append(doc.TaskBreakdown, taskRow{t.TaskID, t.TaskTitle, t.TotalTime.Milliseconds(), t.EntryCount})
	}
	doc.DailyBreakdown = make([]dailyRow, 0, len(rep.DailyBreakdown))
	for _, d := range rep.DailyBreakdown {
		doc.DailyBreakdown = append(doc.DailyBreakdown, dailyRow{d.Date, d.TotalTime.Milliseconds(), d.EntryCount})
	}
	doc.CategoryBreakdown = make([]categoryRow, 0, len(rep.CategoryBreakdown))
	for _, c := range rep.CategoryBreakdown {
		doc.CategoryBreakdown = append(doc.CategoryBreakdown, categoryRow{c.Category, c.TotalTime.Milliseconds(), c.Percentage})
	}
	return writeJSON(w, doc)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json export: %w", err)
	}
	return nil
}
