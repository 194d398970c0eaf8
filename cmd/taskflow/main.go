package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/taskflow/internal/cli"
	"github.com/alexanderramin/taskflow/internal/config"
	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/alexanderramin/taskflow/internal/storage"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		Bootstrap: bootstrap,
		LogOutput: os.Stderr,
	}

	// Detect interactive terminal for the live timer and forms.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(context.Background())
}

// bootstrap opens the primary database and the configured backup store,
// then wires the storage manager and services over them.
func bootstrap(ctx context.Context, cfg config.Config, logger *slog.Logger) (*cli.Services, func() error, error) {
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	closers := []func() error{database.Close}
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	primary := storage.NewSQLiteStore(database,
		storage.WithQuota(cfg.QuotaBytes),
		storage.WithUnitOfWork(db.NewSQLiteUnitOfWork(database)),
	)

	var backup storage.KeyValueStore
	switch cfg.BackupStore {
	case config.BackupRedis:
		client := storage.NewRedisClient(cfg.RedisAddr)
		closers = append(closers, client.Close)
		backup = storage.NewRedisStore(client, "taskflow:"+cfg.UserID, cfg.BackupTTL)
	case config.BackupMemory:
		backup = storage.NewMemoryStore(0)
	default:
		var backupDB *sql.DB
		backupDB, err = db.OpenDB(cfg.BackupDBPath())
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("opening backup database: %w", err)
		}
		closers = append(closers, backupDB.Close)
		backup = storage.NewSQLiteStore(backupDB)
	}

	store := storage.NewManager(
		storage.NewMirroredStore(primary, backup, logger),
		storage.WithLogger(logger),
		storage.WithRetention(cfg.Retention()),
	)

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithObserver(service.NewLogUseCaseObserver(logger)),
	}
	catalog := service.StaticCatalog(cfg.Tasks)
	ledger := service.NewLedgerService(ctx, store, opts...)

	return &cli.Services{
		Timer:   service.NewTimerService(ctx, store, ledger, cfg.UserID, opts...),
		Ledger:  ledger,
		Reports: service.NewReportService(ledger, catalog, opts...),
		Store:   store,
		Catalog: catalog,
	}, closeAll, nil
}
