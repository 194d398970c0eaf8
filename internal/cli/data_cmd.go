package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newDataCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Back up, restore and maintain stored data",
	}

	cmd.AddCommand(
		newDataExportCmd(app),
		newDataImportCmd(app),
		newDataUsageCmd(app),
		newDataCleanupCmd(app),
		newDataClearCmd(app),
	)

	return cmd
}

func newDataExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export timer state, entries, sessions and preferences as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := app.Services.Store.ExportData(cmd.Context())
			if err != nil {
				return fmt.Errorf("exporting data: %w", err)
			}
			if out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if out == "" {
				out = backupFilename(app.now().In(app.location()))
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported data to %s (%s)\n", out, formatter.Bytes(int64(len(data))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", `output path ("-" for stdout)`)
	return cmd
}

func newDataImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a data export, replacing the sections it contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading import: %w", err)
			}

			if !app.Services.Store.ImportData(ctx, data) {
				return errors.New("import failed: the file is not a TaskFlow export")
			}
			app.Services.Ledger.Reload(ctx)
			n := len(app.Services.Ledger.List(ctx))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported data (%d %s now stored)\n", n, pluralEntries(n))
			return nil
		},
	}
}

func newDataUsageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show how much storage is in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := app.Services.Store.UsageEstimate(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUsage(u, app.Config.QuotaBytes))
			return nil
		},
	}
}

func newDataCleanupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete entries older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			n := app.Services.Store.CleanupOldEntries(ctx)
			app.Services.Ledger.Reload(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s older than %d days\n", n, pluralEntries(n), app.Config.RetentionDays)
			return nil
		},
	}
}

func newDataClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !yes {
				if !app.interactive() {
					return errors.New("refusing to clear data without --yes")
				}
				confirmed := false
				if err := confirmForm("Delete all timer state, entries and preferences?", &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			app.Services.Store.ClearAll(ctx)
			app.Services.Ledger.Reload(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

// backupFilename names a full data export.
func backupFilename(t time.Time) string {
	return fmt.Sprintf("taskflow-backup-%s.json", t.Format(time.DateOnly))
}
