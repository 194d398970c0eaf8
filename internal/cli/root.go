package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/taskflow/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "taskflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Viper == nil {
		app.Viper = config.New()
	}
	var cfgFile string

	root := &cobra.Command{
		Use:           "taskflow",
		Short:         "Track time spent on tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd.Context(), cfgFile)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return app.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file path (default: ./taskflow.yaml or ~/.taskflow/taskflow.yaml)")
	pf.String("db", "", "database path")
	pf.String("user", "", "user id entries are recorded for")
	pf.String("log-level", "", "log level: debug | info | warn | error")
	pf.String("backup-store", "", "backup store: memory | redis")
	config.BindFlag(app.Viper, "db_path", pf, "db")
	config.BindFlag(app.Viper, "user_id", pf, "user")
	config.BindFlag(app.Viper, "log_level", pf, "log-level")
	config.BindFlag(app.Viper, "backup_store", pf, "backup-store")

	root.AddCommand(
		newTimerCmd(app),
		newEntryCmd(app),
		newReportCmd(app),
		newDataCmd(app),
		newPrefsCmd(app),
		newInitCmd(&cfgFile),
	)

	return root
}

func newInitCmd(cfgFile *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write the default configuration.

If --config is given the file is written to that path.
Otherwise it is written to ~/.taskflow/taskflow.yaml.
Fails if the file already exists unless --force is passed.`,
		// Overrides the root hook: writing a config must not need one.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			dest := *cfgFile
			if dest == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("finding home directory: %w", err)
				}
				dest = filepath.Join(home, ".taskflow", "taskflow.yaml")
			}

			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", dest)
				} else if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("stat %s: %w", dest, err)
				}
			}
			if err := os.WriteFile(dest, []byte(config.DefaultYAML), 0o644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", dest)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")
	return cmd
}
