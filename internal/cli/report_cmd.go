package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/export"
	"github.com/alexanderramin/taskflow/internal/report"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var period, from, to, format, out, title string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize tracked time for a day, week or month",
		Long: `Summarize tracked time. Without --from/--to the report covers the current
day, week (Monday to Sunday) or month. --format json, csv or pdf writes a
file named after the report date, or to --out ("-" for stdout).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := report.ParsePeriod(period)
			if err != nil {
				return err
			}
			req := service.ReportRequest{UserID: app.Config.UserID, Period: p}
			if from != "" || to != "" {
				start, end, err := parseRange(from, to, app.location())
				if err != nil {
					return err
				}
				req.Start, req.End = start, end
			}

			rep, err := app.Services.Reports.Generate(ctx, req)
			if err != nil {
				return fmt.Errorf("generating report: %w", err)
			}

			if format == "" || format == "text" {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReport(rep, app.location()))
				return nil
			}
			return writeReport(cmd, app, rep, format, out, title)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&period, "period", "p", string(domain.PeriodWeek), "day | week | month")
	f.StringVar(&from, "from", "", "custom range start (date or time)")
	f.StringVar(&to, "to", "", "custom range end (date or time)")
	f.StringVarP(&format, "format", "f", "text", "text | json | csv | pdf")
	f.StringVarP(&out, "out", "o", "", `output path ("-" for stdout)`)
	f.StringVar(&title, "title", "", "report title in exported files")
	return cmd
}

func writeReport(cmd *cobra.Command, app *App, rep *domain.TimeReport, format, out, title string) error {
	ff, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	now := app.now()
	meta := export.Meta{Title: title, GeneratedAt: now, Location: app.location()}

	if out == "-" {
		return export.WriteReport(cmd.OutOrStdout(), ff, rep, meta)
	}
	if out == "" {
		out = export.ReportFilename(ff, now.In(app.location()))
	}
	if err := writeFile(out, func(f *os.File) error { return export.WriteReport(f, ff, rep, meta) }); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s report (%d %s, %s) to %s\n",
		ff, len(rep.Entries), pluralEntries(len(rep.Entries)), formatter.Short(rep.TotalTime), out)
	return nil
}
