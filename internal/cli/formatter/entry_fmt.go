package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

const maxDescriptionWidth = 40

// EntryListOptions controls FormatEntryList.
type EntryListOptions struct {
	Title    func(taskID string) string
	Location *time.Location
	Now      time.Time
}

// FormatEntryList renders entries as a table followed by a total line.
func FormatEntryList(entries []domain.TimeEntry, opts EntryListOptions) string {
	if len(entries) == 0 {
		return Dim("No time entries.") + "\n"
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	headers := []string{"ID", "DATE", "TASK", "START", "END", "DURATION", "CATEGORY", "DESCRIPTION"}
	rows := make([][]string, 0, len(entries))
	var total time.Duration
	for _, e := range entries {
		total += e.Duration
		task := e.TaskID
		if opts.Title != nil {
			task = domain.CoalesceStr(opts.Title(e.TaskID), e.TaskID)
		}
		dur := StyleFg.Render(Short(e.Duration))
		if e.IsManual {
			dur += Dim(" (manual)")
		}
		rows = append(rows, []string{
			TruncID(e.ID),
			HumanDateFrom(e.StartTime, now.In(loc)),
			Bold(task),
			e.StartTime.In(loc).Format("15:04"),
			e.EndTime.In(loc).Format("15:04"),
			dur,
			CategoryBadge(e.Category),
			truncate(e.Description, maxDescriptionWidth),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	fmt.Fprintf(&b, "\n%s %s across %d %s\n", Dim("Total:"), Bold(Short(total)), len(entries), plural(len(entries), "entry", "entries"))
	return b.String()
}

// FormatEntry renders a single entry as a detail block.
func FormatEntry(e domain.TimeEntry, title string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s  %s\n", Dim(fmt.Sprintf("%-12s", label)), value)
	}
	row("ID:", e.ID)
	row("Task:", Bold(domain.CoalesceStr(title, e.TaskID)))
	row("Start:", e.StartTime.In(loc).Format("2006-01-02 15:04:05"))
	row("End:", e.EndTime.In(loc).Format("2006-01-02 15:04:05"))
	row("Duration:", StyleGreen.Render(Clock(e.Duration, true)))
	row("Category:", CategoryBadge(e.CategoryOrDefault()))
	if e.Description != "" {
		row("Description:", e.Description)
	}
	if e.IsManual {
		row("Source:", "manual")
	} else {
		row("Source:", "timer")
	}
	return b.String()
}

// FormatCategories lists the suggested categories, marking def.
func FormatCategories(categories []string, def string) string {
	var b strings.Builder
	for _, c := range categories {
		if c == def {
			fmt.Fprintf(&b, "%s %s\n", StyleGreen.Render("●"), Bold(c)+Dim(" (default)"))
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", Dim("○"), c)
	}
	return b.String()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
