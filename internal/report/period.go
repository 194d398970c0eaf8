package report

import (
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/timeutil"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (domain.ReportPeriod, error) {
	if !domain.ValidReportPeriods[s] {
		return "", fmt.Errorf("invalid report period %q (expected day, week or month)", s)
	}
	return domain.ReportPeriod(s), nil
}

// PeriodBounds returns the calendar window of the given period that
// contains ref. Weeks start on Monday.
func PeriodBounds(period domain.ReportPeriod, ref time.Time) (time.Time, time.Time) {
	day := timeutil.StartOfDay(ref)
	switch period {
	case domain.PeriodDay:
		return day, timeutil.EndOfDay(ref)
	case domain.PeriodMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return first, first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	default:
		offset := (int(day.Weekday()) + 6) % 7
		monday := day.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 7).Add(-time.Nanosecond)
	}
}
