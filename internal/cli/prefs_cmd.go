package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/timeutil"
	"github.com/spf13/cobra"
)

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change display and entry preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatPrefs(app.Services.Store.Preferences(cmd.Context())))
			return nil
		},
	}
	cmd.AddCommand(newPrefsSetCmd(app))
	return cmd
}

func newPrefsSetCmd(app *App) *cobra.Command {
	var category, clock string
	var showSeconds, round bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change preferences; only the flags given are updated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store := app.Services.Store
			p := store.Preferences(ctx)
			flags := cmd.Flags()

			if flags.Changed("default-category") {
				c := strings.TrimSpace(category)
				if c == "" {
					return errors.New("default category must not be empty")
				}
				p.DefaultCategory = c
			}
			if flags.Changed("clock-format") {
				f, err := timeutil.ParseFormat(clock)
				if err != nil {
					return err
				}
				p.ClockFormat = string(f)
			}
			if flags.Changed("show-seconds") {
				p.ShowSeconds = showSeconds
			}
			if flags.Changed("round-manual") {
				p.RoundManualToMinute = round
			}

			if !store.SavePreferences(ctx, p) {
				return errors.New("preferences could not be saved")
			}
			fmt.Fprint(cmd.OutOrStdout(), formatPrefs(p))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&category, "default-category", "", "category for entries logged without one")
	f.StringVar(&clock, "clock-format", "", "short | long | clock")
	f.BoolVar(&showSeconds, "show-seconds", true, "show seconds in durations")
	f.BoolVar(&round, "round-manual", false, "round manual entry times down to the minute")
	return cmd
}

func formatPrefs(p domain.Preferences) string {
	rows := [][]string{
		{"default-category", p.DefaultCategory},
		{"clock-format", p.ClockFormat},
		{"show-seconds", fmt.Sprint(p.ShowSeconds)},
		{"round-manual", fmt.Sprint(p.RoundManualToMinute)},
	}
	return formatter.RenderTable([]string{"PREFERENCE", "VALUE"}, rows)
}
