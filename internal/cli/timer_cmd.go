package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/alexanderramin/taskflow/internal/timeutil"
	"github.com/spf13/cobra"
)

func newTimerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Start, pause, resume and stop the task timer",
	}

	cmd.AddCommand(
		newTimerStartCmd(app),
		newTimerTransitionCmd(app, "pause", "Pause the running timer", service.TimerService.Pause),
		newTimerTransitionCmd(app, "resume", "Resume a paused timer", service.TimerService.Resume),
		newTimerTransitionCmd(app, "stop", "Stop the timer and log the current segment", service.TimerService.Stop),
		newTimerStatusCmd(app),
		newTimerWatchCmd(app),
	)

	return cmd
}

func newTimerStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start <task-id>",
		Short: "Start timing a task",
		Long: `Start timing a task. A timer already running on another task is
stopped first and its segment is logged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Services.Timer.Start(cmd.Context(), args[0])
			return reportTransition(cmd.OutOrStdout(), "start", res, err)
		},
	}
}

func newTimerTransitionCmd(app *App, verb, short string, fn func(service.TimerService, context.Context) (service.TimerResult, error)) *cobra.Command {
	return &cobra.Command{
		Use:   verb,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := fn(app.Services.Timer, cmd.Context())
			return reportTransition(cmd.OutOrStdout(), verb, res, err)
		},
	}
}

// reportTransition prints the outcome of a transition. An error with a
// changed state means the transition happened but the segment could not
// be logged.
func reportTransition(out io.Writer, verb string, res service.TimerResult, err error) error {
	if err != nil && !res.Changed {
		return fmt.Errorf("%s timer: %w", verb, err)
	}
	fmt.Fprintln(out, formatter.FormatTransition(verb, res.Changed, res.State, res.Entry))
	if err != nil {
		return fmt.Errorf("%s succeeded but the segment was not logged: %w", verb, err)
	}
	return nil
}

func newTimerStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the timer state and elapsed time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := app.Services.Timer
			state := t.State()
			prefs := app.Services.Store.Preferences(cmd.Context())
			// Idle timers have no session; the box says so on its own.
			session, _ := t.ActiveSession()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTimerStatus(formatter.TimerView{
				State:       state,
				Elapsed:     t.CurrentElapsed(),
				TaskTitle:   app.title(state.TaskID),
				ShowSeconds: prefs.ShowSeconds,
				Location:    app.location(),
				Session:     session,
			}))
			return nil
		},
	}
}

func newTimerWatchCmd(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show a live timer",
		Long: `Show a live timer. In a terminal this opens an interactive view
(p pause, r resume, s stop, q quit). With --plain, or when stdin is not a
terminal, the elapsed time is printed every tick until the timer stops.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			prefs := app.Services.Store.Preferences(ctx)
			if !plain && app.interactive() {
				m := newTimerModel(ctx, app.Services.Timer, app.title, app.Config.TickInterval, prefs.ShowSeconds)
				return app.runProgram(ctx, m, cmd.OutOrStdout())
			}

			format, err := timeutil.ParseFormat(prefs.ClockFormat)
			if err != nil {
				format = timeutil.FormatClock
			}
			out := cmd.OutOrStdout()
			if !app.Services.Timer.State().IsRunning {
				fmt.Fprintln(out, formatter.Dim("Timer is not running."))
				return nil
			}
			for elapsed := range app.Services.Timer.Watch(ctx, app.Config.TickInterval) {
				fmt.Fprintln(out, timeutil.FormatDuration(elapsed, format, prefs.ShowSeconds))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print elapsed time lines instead of the interactive view")
	return cmd
}
