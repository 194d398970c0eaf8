package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestHumanDateFrom(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", HumanDateFrom(now.Add(-8*time.Hour), now))
	assert.Equal(t, "Yesterday", HumanDateFrom(now.Add(-10*time.Hour), now))
	assert.Equal(t, "Sep 30, 2022", HumanDateFrom(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), now))
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "Just now", HumanTimestampFrom(now, now))
	assert.Equal(t, "5m ago", HumanTimestampFrom(now.Add(-5*time.Minute), now))
	assert.Equal(t, "2h ago", HumanTimestampFrom(now.Add(-2*time.Hour), now))
	assert.Equal(t, "Mar 8, 2026", HumanTimestampFrom(now.Add(-48*time.Hour), now))
}

func TestCategoryBadge(t *testing.T) {
	assert.Contains(t, CategoryBadge("Design"), "Design")
	assert.Contains(t, CategoryBadge(""), "--")
}

func TestTruncID(t *testing.T) {
	id := "a1b2c3d4-e5f6-7890-abcd-ef1234567890"
	got := TruncID(id)
	assert.Contains(t, got, "a1b2c3d4")
	assert.NotContains(t, got, "e5f6")

	// Short IDs should be returned as-is (dimmed)
	assert.Contains(t, TruncID("short"), "short")
}

func TestDurationHelpers(t *testing.T) {
	d := 2*time.Hour + 5*time.Minute + 9*time.Second
	assert.Equal(t, "02:05:09", Clock(d, true))
	assert.Equal(t, "02:05", Clock(d, false))
	assert.Equal(t, "2h 5m", Short(d))
}

func TestBytes(t *testing.T) {
	assert.Equal(t, "512 B", Bytes(512))
	assert.Equal(t, "1.5 KiB", Bytes(1536))
	assert.Equal(t, "5.0 MiB", Bytes(5*1024*1024))
}

func TestRenderBox(t *testing.T) {
	result := RenderBox("TEST", "content here")
	assert.Contains(t, result, "TEST")
	assert.Contains(t, result, "content here")
	assert.Contains(t, result, "╭")
	assert.Contains(t, result, "╰")
}

func TestRenderBoxWithoutTitle(t *testing.T) {
	result := RenderBox("", "just content")
	assert.Contains(t, result, "just content")
	assert.Contains(t, result, "╭")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{{"long value", "x"}, {"s", "y"}}))
	assert.Contains(t, out, "A           B\n")
	assert.Contains(t, out, "long value  x\n")
	assert.Contains(t, out, "s           y\n")
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderProgress_Clamps(t *testing.T) {
	assert.Contains(t, stripANSI(RenderProgress(1.5, 4)), "[████] 100%")
	assert.Contains(t, stripANSI(RenderProgress(-1, 4)), "[░░░░]   0%")
	assert.Equal(t, "██░░", stripANSI(RenderShareBar(0.5, 4)))
}
