package domain

type TimerStatus string

const (
	TimerIdle    TimerStatus = "idle"
	TimerRunning TimerStatus = "running"
	TimerPaused  TimerStatus = "paused"
)

type ReportPeriod string

const (
	PeriodDay   ReportPeriod = "day"
	PeriodWeek  ReportPeriod = "week"
	PeriodMonth ReportPeriod = "month"
)

// ValidReportPeriods is the canonical set of accepted report period strings.
var ValidReportPeriods = map[string]bool{
	"day": true, "week": true, "month": true,
}

// UncategorizedLabel is the category reported for entries without one.
const UncategorizedLabel = "Uncategorized"

// DefaultCategory is preselected for new manual entries.
const DefaultCategory = "Development"

// TimeCategories is the suggested category list offered by entry forms.
// Entries may still carry any free-form category.
var TimeCategories = []string{
	"Development",
	"Testing",
	"Documentation",
	"Meeting",
	"Review",
	"Planning",
	"Research",
	"Bug Fix",
	"Other",
}
