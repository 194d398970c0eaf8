// Package report builds TimeReport aggregates from time entries. It holds
// no state: every report is a pure function of its entries and window.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

const (
	// DefaultProductiveHour is reported when there are no entries.
	DefaultProductiveHour = 9

	consistencyPerDay = 20.0
	consistencyMax    = 60.0
	sessionScoreMax   = 40.0
	targetSession     = 30 * time.Minute
)

// TitleFunc resolves a task title for the task breakdown. A nil TitleFunc,
// or one returning "", falls back to the task id.
type TitleFunc func(taskID string) string

// Options tune report generation.
type Options struct {
	Location *time.Location
	Title    TitleFunc
}

// Generate reports on userID's entries whose start lies in [start, end],
// bucketing days and hours in local time.
func Generate(entries []domain.TimeEntry, userID string, start, end time.Time, period domain.ReportPeriod) domain.TimeReport {
	return GenerateWith(entries, userID, domain.ReportWindow{Start: start, End: end, Period: period}, Options{})
}

// GenerateIn is Generate with an explicit location for day and hour buckets.
func GenerateIn(loc *time.Location, entries []domain.TimeEntry, userID string, start, end time.Time, period domain.ReportPeriod) domain.TimeReport {
	return GenerateWith(entries, userID, domain.ReportWindow{Start: start, End: end, Period: period}, Options{Location: loc})
}

// GenerateWith is the full form used by the report service.
func GenerateWith(entries []domain.TimeEntry, userID string, window domain.ReportWindow, opts Options) domain.TimeReport {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	filtered := Filter(entries, userID, window.Start, window.End)

	var total time.Duration
	for _, e := range filtered {
		total += e.Duration
	}

	daily := dailyBreakdown(filtered, loc)

	var avg time.Duration
	if len(filtered) > 0 {
		avg = total / time.Duration(len(filtered))
	}

	return domain.TimeReport{
		UserID:             userID,
		Window:             window,
		Entries:            filtered,
		TotalTime:          total,
		TaskBreakdown:      taskBreakdown(filtered, opts.Title),
		DailyBreakdown:     daily,
		CategoryBreakdown:  categoryBreakdown(filtered, total),
		AverageSessionTime: avg,
		ProductivityScore:  ProductivityScore(len(filtered), len(daily), avg),
		MostProductiveHour: MostProductiveHour(filtered, loc),
	}
}

// Filter keeps entries of userID whose start lies in [start, end].
func Filter(entries []domain.TimeEntry, userID string, start, end time.Time) []domain.TimeEntry {
	out := make([]domain.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if e.UserID != userID {
			continue
		}
		if e.StartTime.Before(start) || e.StartTime.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func taskBreakdown(entries []domain.TimeEntry, title TitleFunc) []domain.TaskBreakdown {
	var out []domain.TaskBreakdown
	index := make(map[string]int)
	for _, e := range entries {
		i, ok := index[e.TaskID]
		if !ok {
			name := ""
			if title != nil {
				name = title(e.TaskID)
			}
			out = append(out, domain.TaskBreakdown{TaskID: e.TaskID, TaskTitle: domain.CoalesceStr(name, e.TaskID)})
			i = len(out) - 1
			index[e.TaskID] = i
		}
		out[i].TotalTime += e.Duration
		out[i].EntryCount++
	}
	return out
}

func dailyBreakdown(entries []domain.TimeEntry, loc *time.Location) []domain.DailyBreakdown {
	byDate := make(map[string]*domain.DailyBreakdown)
	for _, e := range entries {
		date := e.StartTime.In(loc).Format("2006-01-02")
		d, ok := byDate[date]
		if !ok {
			d = &domain.DailyBreakdown{Date: date}
			byDate[date] = d
		}
		d.TotalTime += e.Duration
		d.EntryCount++
	}

	out := make([]domain.DailyBreakdown, 0, len(byDate))
	for _, d := range byDate {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func categoryBreakdown(entries []domain.TimeEntry, total time.Duration) []domain.CategoryBreakdown {
	var out []domain.CategoryBreakdown
	index := make(map[string]int)
	for _, e := range entries {
		cat := e.CategoryOrDefault()
		i, ok := index[cat]
		if !ok {
			out = append(out, domain.CategoryBreakdown{Category: cat})
			i = len(out) - 1
			index[cat] = i
		}
		out[i].TotalTime += e.Duration
	}
	for i := range out {
		if total > 0 {
			out[i].Percentage = float64(out[i].TotalTime) / float64(total) * 100
		}
	}
	return out
}

// ProductivityScore combines consistency (distinct active days) with
// session quality (average session length against a 30 minute target).
// The result is in [0, 100] and is 0 without entries.
func ProductivityScore(entryCount, activeDays int, avgSession time.Duration) int {
	if entryCount == 0 {
		return 0
	}
	consistency := math.Min(float64(activeDays)*consistencyPerDay, consistencyMax)
	session := math.Min(float64(avgSession)/float64(targetSession)*sessionScoreMax, sessionScoreMax)
	return int(math.Min(100, math.Round(consistency+session)))
}

// MostProductiveHour returns the local hour of day with the largest summed
// duration. The first hour seen wins ties.
func MostProductiveHour(entries []domain.TimeEntry, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	var order []int
	byHour := make(map[int]time.Duration)
	for _, e := range entries {
		h := e.StartTime.In(loc).Hour()
		if _, ok := byHour[h]; !ok {
			order = append(order, h)
		}
		byHour[h] += e.Duration
	}

	best := DefaultProductiveHour
	var bestTime time.Duration
	for _, h := range order {
		if byHour[h] > bestTime {
			bestTime = byHour[h]
			best = h
		}
	}
	return best
}
