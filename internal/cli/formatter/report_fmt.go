package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

const shareBarWidth = 12

// FormatReport renders a report as a dashboard box.
func FormatReport(rep *domain.TimeReport, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s %s %s\n\n",
		Dim("Period:"),
		StyleFg.Render(rep.Window.Start.In(loc).Format(time.DateOnly)),
		Dim("to"),
		StyleFg.Render(rep.Window.End.In(loc).Format(time.DateOnly)),
	)

	if len(rep.Entries) == 0 {
		b.WriteString(Dim("No time tracked in this period.") + "\n")
		return RenderBox(string(rep.Window.Period)+" report", b.String())
	}

	fmt.Fprintf(&b, "%s %s   %s %d   %s %s\n",
		Dim("Total:"), Bold(Short(rep.TotalTime)),
		Dim("Entries:"), len(rep.Entries),
		Dim("Avg session:"), StyleFg.Render(Short(rep.AverageSessionTime)),
	)
	fmt.Fprintf(&b, "%s %s   %s %s\n\n",
		Dim("Productivity:"), RenderProgress(float64(rep.ProductivityScore)/100, 10),
		Dim("Peak hour:"), StyleFg.Render(fmt.Sprintf("%02d:00", rep.MostProductiveHour)),
	)

	b.WriteString(Header("Tasks") + "\n")
	taskRows := make([][]string, 0, len(rep.TaskBreakdown))
	for _, t := range rep.TaskBreakdown {
		taskRows = append(taskRows, []string{
			Bold(t.TaskTitle),
			Short(t.TotalTime),
			fmt.Sprintf("%d", t.EntryCount),
			RenderShareBar(share(t.TotalTime, rep.TotalTime), shareBarWidth),
		})
	}
	b.WriteString(RenderTable([]string{"TASK", "TIME", "ENTRIES", "SHARE"}, taskRows))

	b.WriteString("\n" + Header("Days") + "\n")
	dayRows := make([][]string, 0, len(rep.DailyBreakdown))
	for _, d := range rep.DailyBreakdown {
		dayRows = append(dayRows, []string{d.Date, Short(d.TotalTime), fmt.Sprintf("%d", d.EntryCount)})
	}
	b.WriteString(RenderTable([]string{"DATE", "TIME", "ENTRIES"}, dayRows))

	b.WriteString("\n" + Header("Categories") + "\n")
	catRows := make([][]string, 0, len(rep.CategoryBreakdown))
	for _, c := range rep.CategoryBreakdown {
		catRows = append(catRows, []string{
			CategoryBadge(c.Category),
			Short(c.TotalTime),
			fmt.Sprintf("%.1f%%", c.Percentage),
			RenderShareBar(c.Percentage/100, shareBarWidth),
		})
	}
	b.WriteString(RenderTable([]string{"CATEGORY", "TIME", "SHARE", ""}, catRows))

	return RenderBox(string(rep.Window.Period)+" report", b.String())
}

func share(part, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total)
}
