package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/export"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/alexanderramin/taskflow/internal/timeutil"
	"github.com/spf13/cobra"
)

func newEntryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entry",
		Aliases: []string{"entries"},
		Short:   "Manage time entries",
	}

	cmd.AddCommand(
		newEntryAddCmd(app),
		newEntryListCmd(app),
		newEntryShowCmd(app),
		newEntryEditCmd(app),
		newEntryRemoveCmd(app),
		newEntryExportCmd(app),
		newEntryCategoriesCmd(app),
	)

	return cmd
}

func newEntryAddCmd(app *App) *cobra.Command {
	var in service.ManualEntry
	var interactive bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a manual time entry",
		Long: `Log a manual time entry. Times accept RFC3339 or "YYYY-MM-DD HH:MM" in
local time.`,
		Example: `  taskflow entry add --task task-1 --start "2026-03-10 09:00" --end "2026-03-10 10:30"
  taskflow entry add --interactive`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if interactive {
				if !app.interactive() {
					return errors.New("--interactive needs a terminal")
				}
				in.Category = domain.CoalesceStr(in.Category, app.Services.Store.Preferences(ctx).DefaultCategory)
				if err := manualEntryForm(&in, app.now(), app.location()).Run(); err != nil {
					return fmt.Errorf("entry form: %w", err)
				}
			}
			in.UserID = app.Config.UserID

			entry, err := app.Services.Ledger.AddManual(ctx, in)
			if err != nil {
				return fmt.Errorf("adding entry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Logged %s on %s (%s)\n",
				formatter.StyleGreen.Render("✔"),
				formatter.Short(entry.Duration),
				formatter.Bold(app.title(entry.TaskID)),
				entry.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.TaskID, "task", "", "task id")
	f.StringVar(&in.Start, "start", "", "start time")
	f.StringVar(&in.End, "end", "", "end time")
	f.StringVar(&in.Description, "description", "", "what was done")
	f.StringVar(&in.Category, "category", "", "category (default from preferences)")
	f.BoolVarP(&interactive, "interactive", "i", false, "fill the entry in a form")
	return cmd
}

func newEntryListCmd(app *App) *cobra.Command {
	var taskID, from, to string
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List time entries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ledger := app.Services.Ledger

			var entries []domain.TimeEntry
			if from != "" || to != "" {
				start, end, err := parseRange(from, to, app.location())
				if err != nil {
					return err
				}
				entries = ledger.ListByDateRange(ctx, start, end)
			} else {
				entries = ledger.List(ctx)
			}
			if taskID != "" {
				entries = filterByTask(entries, taskID)
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntryList(entries, formatter.EntryListOptions{
				Title:    app.title,
				Location: app.location(),
				Now:      app.now(),
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&taskID, "task", "", "only entries of this task")
	cmd.Flags().StringVar(&from, "from", "", "earliest start (date or time)")
	cmd.Flags().StringVar(&to, "to", "", "latest start (date or time; a bare date includes the whole day)")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many entries")
	return cmd
}

// parseRange parses optional --from/--to bounds. A missing bound is open
// and a bare date as the upper bound covers its whole day.
func parseRange(from, to string, loc *time.Location) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	if from != "" {
		t, ok := timeutil.ParseTimestamp(from, loc)
		if !ok {
			return start, end, fmt.Errorf("invalid --from %q", from)
		}
		start = t
	}
	if to != "" {
		t, ok := timeutil.ParseTimestamp(to, loc)
		if !ok {
			return start, end, fmt.Errorf("invalid --to %q", to)
		}
		if _, err := time.ParseInLocation(time.DateOnly, to, loc); err == nil {
			t = timeutil.EndOfDay(t)
		}
		end = t
	}
	if end.Before(start) {
		return start, end, errors.New("--to is before --from")
	}
	return start, end, nil
}

func filterByTask(entries []domain.TimeEntry, taskID string) []domain.TimeEntry {
	out := entries[:0:0]
	for _, e := range entries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out
}

func newEntryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entry (an id prefix of 4+ characters is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.Services.Ledger.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntry(*e, app.title(e.TaskID), app.location()))
			return nil
		},
	}
}

func newEntryEditCmd(app *App) *cobra.Command {
	var description, category string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an entry's description or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var patch domain.EntryPatch
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if patch.IsEmpty() {
				return errors.New("nothing to change: pass --description and/or --category")
			}

			current, err := app.Services.Ledger.Get(ctx, args[0])
			if err != nil {
				return err
			}
			updated, err := app.Services.Ledger.Update(ctx, current.ID, patch)
			if err != nil {
				return fmt.Errorf("updating entry: %w", err)
			}
			if updated == nil {
				return fmt.Errorf("%s: %w", current.ID, service.ErrEntryNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %s\n", updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "new description (empty clears it)")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	return cmd
}

func newEntryRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := app.Services.Ledger.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Services.Ledger.Remove(ctx, e.ID); err != nil {
				return fmt.Errorf("removing entry: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed entry %s (%s on %s)\n", e.ID, formatter.Short(e.Duration), app.title(e.TaskID))
			return nil
		},
	}
}

func newEntryExportCmd(app *App) *cobra.Command {
	var dir string
	var stdout bool

	cmd := &cobra.Command{
		Use:   "export <task-id>",
		Short: "Export one task's entries as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now := app.now()
			summary := app.Services.Ledger.TaskSummary(ctx, args[0])
			title := app.title(args[0])
			te := export.TaskEntries{
				TaskID:     summary.TaskID,
				TaskTitle:  title,
				Entries:    summary.Entries,
				TotalTime:  summary.TotalTime,
				ExportedAt: now,
			}

			if stdout {
				return export.WriteTaskEntriesJSON(cmd.OutOrStdout(), te)
			}
			path := filepath.Join(dir, export.TaskEntriesFilename(title, now.In(app.location())))
			if err := writeFile(path, func(f *os.File) error { return export.WriteTaskEntriesJSON(f, te) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d %s to %s\n", summary.EntryCount, pluralEntries(summary.EntryCount), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write the file to")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write to stdout instead of a file")
	return cmd
}

func newEntryCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List suggested categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def := app.Services.Store.Preferences(cmd.Context()).DefaultCategory
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCategories(domain.TimeCategories, def))
			return nil
		},
	}
}

// writeFile creates path and hands it to write, removing the file again
// if write fails.
func writeFile(path string, write func(*os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return write(f)
}

func pluralEntries(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}
