// Package timeutil holds the pure time helpers shared by the timer, the
// ledger and the display layer: elapsed-time arithmetic, duration
// formatting and timestamp parsing.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Format selects how FormatDuration renders a duration.
type Format string

const (
	FormatShort Format = "short" // "2h 5m"
	FormatLong  Format = "long"  // "2 hours, 5 minutes"
	FormatClock Format = "clock" // "02:05:00"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatShort:
		return FormatShort, nil
	case FormatLong:
		return FormatLong, nil
	case FormatClock, "":
		return FormatClock, nil
	default:
		return "", fmt.Errorf("unknown duration format %q (expected short, long or clock)", s)
	}
}

// FormatDuration renders d in the requested format. Sub-second precision
// is dropped. Negative durations render as "00:00" regardless of format.
func FormatDuration(d time.Duration, format Format, showSeconds bool) string {
	if d < 0 {
		return "00:00"
	}

	totalSeconds := int64(d / time.Second)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	switch format {
	case FormatShort:
		if hours > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		if minutes > 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		if showSeconds {
			return fmt.Sprintf("%ds", seconds)
		}
		return "0m"

	case FormatLong:
		var parts []string
		if hours > 0 {
			parts = append(parts, plural(hours, "hour"))
		}
		if minutes > 0 {
			parts = append(parts, plural(minutes, "minute"))
		}
		if showSeconds && seconds > 0 {
			parts = append(parts, plural(seconds, "second"))
		}
		if len(parts) == 0 {
			return "0 seconds"
		}
		return strings.Join(parts, ", ")

	default:
		if showSeconds {
			return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
		}
		return fmt.Sprintf("%02d:%02d", hours, minutes)
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// CalculateElapsed returns end - start - paused, clamped at zero.
// A zero start or end stands for an unparsable timestamp and yields 0,
// as does an end before start.
func CalculateElapsed(start, end time.Time, paused time.Duration) time.Duration {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	if end.Before(start) {
		return 0
	}
	elapsed := end.Sub(start) - paused
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// ElapsedSince is CalculateElapsed for an open interval ending at now.
func ElapsedSince(start time.Time, paused time.Duration, now time.Time) time.Duration {
	return CalculateElapsed(start, now, paused)
}

// RoundToNearestMinute drops seconds and sub-second precision.
func RoundToNearestMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp accepts RFC3339 and a few hand-typed layouts. Layouts
// without a zone are interpreted in loc. The second result reports
// whether s could be parsed at all.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
