package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/report"
	"github.com/alexanderramin/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportDate = time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)

func sampleReport() *domain.TimeReport {
	start := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	entries := []domain.TimeEntry{
		testutil.NewTestEntry("task-1", start, time.Hour, testutil.WithCategory("Development")),
		testutil.NewTestEntry("task-2", start.Add(24*time.Hour), 20*time.Minute, testutil.WithCategory("Design")),
	}
	rep := report.GenerateWith(entries, testutil.DefaultUserID, domain.ReportWindow{
		Start:  time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC),
		Period: domain.PeriodWeek,
	}, report.Options{Location: time.UTC, Title: func(id string) string {
		if id == "task-1" {
			return "Write, docs"
		}
		return ""
	}})
	return &rep
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "time-entries-fix-login-bug-2026-03-10.json", TaskEntriesFilename("Fix  Login\tBug", exportDate))
	assert.Equal(t, "time-entries-a-b-2026-03-10.json", TaskEntriesFilename("a/ b", exportDate))
	assert.Equal(t, "taskflow-time-report-2026-03-10.csv", ReportFilename(FormatCSV, exportDate))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestWriteTaskEntriesJSON(t *testing.T) {
	start := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	entries := []domain.TimeEntry{
		testutil.NewTestEntry("task-1", start, time.Hour),
		testutil.NewTestEntry("task-1", start.Add(2*time.Hour), 30*time.Minute),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTaskEntriesJSON(&buf, TaskEntries{
		TaskID:     "task-1",
		TaskTitle:  "Write docs",
		Entries:    entries,
		TotalTime:  90 * time.Minute,
		ExportedAt: exportDate,
	}))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "task-1", doc["taskId"])
	assert.Equal(t, "Write docs", doc["taskTitle"])
	assert.Equal(t, float64(5400000), doc["totalTime"])
	assert.Equal(t, float64(2), doc["entryCount"])
	assert.Equal(t, "2026-03-10T18:30:00Z", doc["exportedAt"])

	list, ok := doc["entries"].([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, float64(3600000), first["duration"])
	assert.Equal(t, "2026-03-09T09:00:00Z", first["startTime"])
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportJSON(&buf, sampleReport(), Meta{GeneratedAt: exportDate}))

	var doc struct {
		Metadata struct {
			Title        string `json:"title"`
			ReportPeriod struct {
				Granularity string `json:"granularity"`
			} `json:"reportPeriod"`
		} `json:"metadata"`
		TotalTime         int64 `json:"totalTime"`
		CategoryBreakdown []struct {
			Category   string  `json:"category"`
			Percentage float64 `json:"percentage"`
		} `json:"categoryBreakdown"`
		DailyBreakdown []struct {
			Date string `json:"date"`
		} `json:"dailyBreakdown"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "TaskFlow Time Report", doc.Metadata.Title)
	assert.Equal(t, "week", doc.Metadata.ReportPeriod.Granularity)
	assert.Equal(t, int64(80*60*1000), doc.TotalTime)
	require.Len(t, doc.CategoryBreakdown, 2)
	assert.InDelta(t, 75.0, doc.CategoryBreakdown[0].Percentage, 0.001)
	require.Len(t, doc.DailyBreakdown, 2)
	assert.Equal(t, "2026-03-09", doc.DailyBreakdown[0].Date)
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, sampleReport(), Meta{GeneratedAt: exportDate}))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"TaskFlow Time Report"}, records[0])
	assert.Equal(t, []string{"Report Period", "2026-03-09 to 2026-03-15"}, records[2])
	assert.Contains(t, records, []string{"Total Time", "01:20:00"})
	assert.Contains(t, records, []string{"task-1", "Write, docs", "01:00:00", "60", "1"})
	assert.Contains(t, records, []string{"task-2", "task-2", "00:20:00", "20", "1"})
	assert.Contains(t, records, []string{"2026-03-10", "00:20:00", "20", "1"})
	assert.Contains(t, records, []string{"Design", "00:20:00", "20", "25.0"})
}

func TestWriteReportPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportPDF(&buf, sampleReport(), Meta{GeneratedAt: exportDate}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteReport_Dispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, FormatJSON, sampleReport(), Meta{GeneratedAt: exportDate}))
	assert.True(t, json.Valid(buf.Bytes()))

	assert.Error(t, WriteReport(&buf, Format("xml"), sampleReport(), Meta{}))
}
