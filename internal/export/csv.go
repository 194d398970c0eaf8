package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/timeutil"
)

// WriteReportCSV writes rep as consecutive titled sections: overview,
// tasks, days and categories. Records have varying field counts.
func WriteReportCSV(w io.Writer, rep *domain.TimeReport, meta Meta) error {
	loc := meta.loc()
	cw := csv.NewWriter(w)

	records := [][]string{
		{meta.title()},
		{"Generated", meta.GeneratedAt.In(loc).Format(time.RFC3339)},
		{"Report Period", rep.Window.Start.In(loc).Format(time.DateOnly) + " to " + rep.Window.End.In(loc).Format(time.DateOnly)},

		{"Overview"},
		{"Metric", "Value"},
		{"Total Time", clock(rep.TotalTime)},
		{"Entries", strconv.Itoa(len(rep.Entries))},
		{"Average Session", clock(rep.AverageSessionTime)},
		{"Productivity Score", strconv.Itoa(rep.ProductivityScore)},
		{"Most Productive Hour", fmt.Sprintf("%02d:00", rep.MostProductiveHour)},

		{"Task Breakdown"},
		{"Task ID", "Task", "Total Time", "Minutes", "Entries"},
	}
	for _, t := range rep.TaskBreakdown {
		records = append(records, []string{
			t.TaskID, t.TaskTitle, clock(t.TotalTime), minutes(t.TotalTime), strconv.Itoa(t.EntryCount),
		})
	}

	records = append(records, []string{"Daily Breakdown"}, []string{"Date", "Total Time", "Minutes", "Entries"})
	for _, d := range rep.DailyBreakdown {
		records = append(records, []string{d.Date, clock(d.TotalTime), minutes(d.TotalTime), strconv.Itoa(d.EntryCount)})
	}

	records = append(records, []string{"Category Breakdown"}, []string{"Category", "Total Time", "Minutes", "Percentage"})
	for _, c := range rep.CategoryBreakdown {
		records = append(records, []string{
			c.Category, clock(c.TotalTime), minutes(c.TotalTime), strconv.FormatFloat(c.Percentage, 'f', 1, 64),
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv export: %w", err)
	}
	return nil
}

func clock(d time.Duration) string {
	return timeutil.FormatDuration(d, timeutil.FormatClock, true)
}

func minutes(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Minute), 10)
}
