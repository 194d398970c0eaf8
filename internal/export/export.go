// Package export renders time entries and reports as downloadable files.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// Format is a report file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected json, csv or pdf)", s)
	}
}

// Meta describes a rendered report.
type Meta struct {
	Title       string
	GeneratedAt time.Time
	// Location is used for every displayed timestamp. Nil means UTC.
	Location *time.Location
}

func (m Meta) loc() *time.Location {
	if m.Location == nil {
		return time.UTC
	}
	return m.Location
}

func (m Meta) title() string {
	if m.Title == "" {
		return "TaskFlow Time Report"
	}
	return m.Title
}

// WriteReport renders rep to w in the given format.
func WriteReport(w io.Writer, format Format, rep *domain.TimeReport, meta Meta) error {
	switch format {
	case FormatJSON:
		return WriteReportJSON(w, rep, meta)
	case FormatCSV:
		return WriteReportCSV(w, rep, meta)
	case FormatPDF:
		return WriteReportPDF(w, rep, meta)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug lowercases title and joins its words with dashes. Path separators
// are dropped so the result is always a single file name.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.NewReplacer("/", "", `\`, "").Replace(s)
	return whitespaceRun.ReplaceAllString(s, "-")
}

// TaskEntriesFilename is the file name of a task's entry export.
func TaskEntriesFilename(taskTitle string, date time.Time) string {
	return fmt.Sprintf("time-entries-%s-%s.json", Slug(taskTitle), date.Format(time.DateOnly))
}

// ReportFilename is the file name of a report export.
func ReportFilename(format Format, date time.Time) string {
	return fmt.Sprintf("taskflow-time-report-%s.%s", date.Format(time.DateOnly), format)
}
