package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/timeutil"
)

var stripe = &color.Color{Red: 240, Green: 240, Blue: 240}

// WriteReportPDF renders rep as an A4 document.
func WriteReportPDF(w io.Writer, rep *domain.TimeReport, meta Meta) error {
	loc := meta.loc()
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(meta.title(), props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(12, func() {
				period := fmt.Sprintf("%s - %s", rep.Window.Start.In(loc).Format(time.DateOnly), rep.Window.End.In(loc).Format(time.DateOnly))
				m.Text(period, props.Text{
					Top:   2,
					Align: consts.Center,
					Size:  11,
				})
			})
		})
	})

	section(m, "Overview")
	m.TableList([]string{"Metric", "Value"}, [][]string{
		{"Total time", short(rep.TotalTime)},
		{"Entries", strconv.Itoa(len(rep.Entries))},
		{"Average session", short(rep.AverageSessionTime)},
		{"Productivity score", strconv.Itoa(rep.ProductivityScore)},
		{"Most productive hour", fmt.Sprintf("%02d:00", rep.MostProductiveHour)},
	}, tableProps([]uint{6, 6}))

	if len(rep.TaskBreakdown) > 0 {
		section(m, "Tasks")
		rows := make([][]string, 0, len(rep.TaskBreakdown))
		for _, t := range rep.TaskBreakdown {
			rows = append(rows, []string{t.TaskTitle, short(t.TotalTime), strconv.Itoa(t.EntryCount)})
		}
		m.TableList([]string{"Task", "Time", "Entries"}, rows, tableProps([]uint{6, 3, 3}))
	}

	if len(rep.DailyBreakdown) > 0 {
		section(m, "Days")
		rows := make([][]string, 0, len(rep.DailyBreakdown))
		for _, d := range rep.DailyBreakdown {
			rows = append(rows, []string{d.Date, short(d.TotalTime), strconv.Itoa(d.EntryCount)})
		}
		m.TableList([]string{"Date", "Time", "Entries"}, rows, tableProps([]uint{4, 4, 4}))
	}

	if len(rep.CategoryBreakdown) > 0 {
		section(m, "Categories")
		rows := make([][]string, 0, len(rep.CategoryBreakdown))
		for _, c := range rep.CategoryBreakdown {
			rows = append(rows, []string{c.Category, short(c.TotalTime), fmt.Sprintf("%.1f%%", c.Percentage)})
		}
		m.TableList([]string{"Category", "Time", "Share"}, rows, tableProps([]uint{6, 3, 3}))
	}

	m.Row(12, func() {
		m.Col(12, func() {
			m.Text("Generated "+meta.GeneratedAt.In(loc).Format("2006-01-02 15:04"), props.Text{
				Top:   6,
				Align: consts.Right,
				Size:  8,
			})
		})
	})

	buf, err := m.Output()
	if err != nil {
		return fmt.Errorf("rendering pdf export: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing pdf export: %w", err)
	}
	return nil
}

func section(m pdf.Maroto, title string) {
	m.Row(12, func() {
		m.Col(12, func() {
			m.Text(title, props.Text{
				Top:   5,
				Style: consts.Bold,
				Size:  13,
			})
		})
	})
}

func tableProps(grid []uint) props.TableList {
	return props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: grid,
		},
		ContentProp: props.TableListContent{
			Size:      10,
			GridSizes: grid,
		},
		Align:                consts.Left,
		AlternatedBackground: stripe,
		HeaderContentSpace:   1,
	}
}

func short(d time.Duration) string {
	return timeutil.FormatDuration(d, timeutil.FormatShort, false)
}
