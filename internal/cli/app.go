package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/taskflow/internal/config"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/alexanderramin/taskflow/internal/storage"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
)

// DataStore is the slice of the storage manager that data commands use
// directly, bypassing the ledger.
type DataStore interface {
	ExportData(ctx context.Context) ([]byte, error)
	ImportData(ctx context.Context, data []byte) bool
	UsageEstimate(ctx context.Context) storage.Usage
	CleanupOldEntries(ctx context.Context) int
	ClearAll(ctx context.Context)
	Preferences(ctx context.Context) domain.Preferences
	SavePreferences(ctx context.Context, p domain.Preferences) bool
}

// Services holds the wired use cases a command runs against.
type Services struct {
	Timer   service.TimerService
	Ledger  service.LedgerService
	Reports service.ReportService
	Store   DataStore
	Catalog service.TaskCatalog
}

// BootstrapFunc opens storage and wires services for cfg. The returned
// closer releases whatever was opened.
type BootstrapFunc func(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Services, func() error, error)

// App holds configuration and service references used by CLI commands.
type App struct {
	Viper    *viper.Viper
	Config   config.Config
	Logger   *slog.Logger
	Services *Services

	// Bootstrap runs once after configuration is loaded when Services is
	// nil.
	Bootstrap BootstrapFunc

	// IsInteractive reports whether stdin is a terminal. Nil means false.
	IsInteractive func() bool

	// RunProgram runs a bubbletea model to completion. Nil uses a real
	// tea.Program.
	RunProgram func(ctx context.Context, m tea.Model, out io.Writer) error

	Now      func() time.Time
	Location *time.Location

	LogOutput io.Writer

	closer func() error
}

func (app *App) setup(ctx context.Context, cfgFile string) error {
	if app.Viper == nil {
		app.Viper = config.New()
	}
	if _, err := config.ReadFile(app.Viper, cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(app.Viper)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	app.Config = cfg

	if app.Logger == nil {
		out := app.LogOutput
		if out == nil {
			out = io.Discard
		}
		app.Logger = cfg.NewLogger(out)
	}

	if app.Services != nil {
		return nil
	}
	if app.Bootstrap == nil {
		return errors.New("no services configured")
	}
	svcs, closer, err := app.Bootstrap(ctx, cfg, app.Logger)
	if err != nil {
		return err
	}
	app.Services = svcs
	app.closer = closer
	return nil
}

// Close releases resources opened by Bootstrap.
func (app *App) Close() error {
	if app.closer == nil {
		return nil
	}
	err := app.closer()
	app.closer = nil
	return err
}

func (app *App) now() time.Time {
	if app.Now != nil {
		return app.Now()
	}
	return time.Now()
}

func (app *App) location() *time.Location {
	if app.Location != nil {
		return app.Location
	}
	return time.Local
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

func (app *App) title(taskID string) string {
	if app.Services == nil || app.Services.Catalog == nil {
		return taskID
	}
	return domain.CoalesceStr(app.Services.Catalog.Title(taskID), taskID)
}

func (app *App) runProgram(ctx context.Context, m tea.Model, out io.Writer) error {
	if app.RunProgram != nil {
		return app.RunProgram(ctx, m, out)
	}
	_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(out)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
