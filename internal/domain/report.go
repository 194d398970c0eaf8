package domain

import "time"

// ReportWindow is the filtered time range of a report.
type ReportWindow struct {
	Start  time.Time
	End    time.Time
	Period ReportPeriod
}

type TaskBreakdown struct {
	TaskID     string
	TaskTitle  string
	TotalTime  time.Duration
	EntryCount int
}

type DailyBreakdown struct {
	Date       string // YYYY-MM-DD
	TotalTime  time.Duration
	EntryCount int
}

type CategoryBreakdown struct {
	Category   string
	TotalTime  time.Duration
	Percentage float64
}

// TimeReport aggregates a user's entries over a window. It is computed on
// demand and never persisted.
type TimeReport struct {
	UserID             string
	Window             ReportWindow
	Entries            []TimeEntry
	TotalTime          time.Duration
	TaskBreakdown      []TaskBreakdown
	DailyBreakdown     []DailyBreakdown
	CategoryBreakdown  []CategoryBreakdown
	AverageSessionTime time.Duration
	ProductivityScore  int
	MostProductiveHour int
}
