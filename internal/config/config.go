// Package config loads TaskFlow settings from a YAML file, TASKFLOW_*
// environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// TASKFLOW_DB_PATH.
const EnvPrefix = "TASKFLOW"

// Backup store kinds.
const (
	BackupSQLite = "sqlite"
	BackupMemory = "memory"
	BackupRedis  = "redis"
)

// Config holds typed configuration for the CLI.
type Config struct {
	DBPath        string
	UserID        string
	LogLevel      string
	LogFormat     string
	BackupStore   string
	RedisAddr     string
	BackupTTL     time.Duration
	QuotaBytes    int64
	RetentionDays int
	TickInterval  time.Duration
	Tasks         map[string]string
}

// BackupDBPath is the database file of the sqlite backup store.
func (c Config) BackupDBPath() string {
	if c.DBPath == ":memory:" {
		return c.DBPath
	}
	ext := filepath.Ext(c.DBPath)
	return strings.TrimSuffix(c.DBPath, ext) + "-backup" + ext
}

// Retention is the age after which entries become eligible for cleanup.
func (c Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// DefaultYAML is written by "taskflow init".
const DefaultYAML = `# TaskFlow config
# Priority: CLI flag > TASKFLOW_* env > this file > default.

db_path:   "~/.taskflow/taskflow.db"
user_id:   "me"
log_level: "warn"     # debug | info | warn | error
log_format: "text"    # text | json

backup_store: "sqlite"   # sqlite | memory | redis
# redis_addr: "localhost:6379"
backup_ttl:   "24h"

quota_bytes:    5242880   # primary store budget, 0 disables the check
retention_days: 30
tick_interval:  "1s"

# Task titles shown in listings and exports.
tasks:
  # task-1: "Write documentation"
`

// New returns a viper instance carrying defaults and environment lookup.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("db_path", filepath.Join("~", ".taskflow", "taskflow.db"))
	v.SetDefault("user_id", "me")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.SetDefault("backup_store", BackupSQLite)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("backup_ttl", 24*time.Hour)
	v.SetDefault("quota_bytes", 5*1024*1024)
	v.SetDefault("retention_days", 30)
	v.SetDefault("tick_interval", time.Second)
	v.SetDefault("tasks", map[string]string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile loads path into v, or searches ./taskflow.yaml and
// ~/.taskflow/taskflow.yaml when path is empty. A missing file in the
// search locations is not an error. It returns the file actually used.
func ReadFile(v *viper.Viper, path string) (string, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("taskflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".taskflow"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// BindFlag binds a viper key to a flag so that an explicitly set flag
// wins over file and environment values.
func BindFlag(v *viper.Viper, key string, fs *pflag.FlagSet, flagName string) {
	if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
		panic(fmt.Sprintf("bindFlag %q → %q: %v", flagName, key, err))
	}
}

// Load reads all values from v and validates them.
func Load(v *viper.Viper) (Config, error) {
	dbPath, err := expandHome(v.GetString("db_path"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:        dbPath,
		UserID:        strings.TrimSpace(v.GetString("user_id")),
		LogLevel:      strings.ToLower(v.GetString("log_level")),
		LogFormat:     strings.ToLower(v.GetString("log_format")),
		BackupStore:   strings.ToLower(v.GetString("backup_store")),
		RedisAddr:     v.GetString("redis_addr"),
		BackupTTL:     v.GetDuration("backup_ttl"),
		QuotaBytes:    v.GetInt64("quota_bytes"),
		RetentionDays: v.GetInt("retention_days"),
		TickInterval:  v.GetDuration("tick_interval"),
		Tasks:         v.GetStringMapString("tasks"),
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.DBPath == "":
		return errors.New("db_path must not be empty")
	case c.UserID == "":
		return errors.New("user_id must not be empty")
	case c.QuotaBytes < 0:
		return fmt.Errorf("quota_bytes must not be negative, got %d", c.QuotaBytes)
	case c.RetentionDays <= 0:
		return fmt.Errorf("retention_days must be positive, got %d", c.RetentionDays)
	case c.TickInterval <= 0:
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	switch c.BackupStore {
	case BackupSQLite, BackupMemory:
	case BackupRedis:
		if c.RedisAddr == "" {
			return errors.New("redis_addr is required when backup_store is redis")
		}
	default:
		return fmt.Errorf("backup_store must be sqlite, memory or redis, got %q", c.BackupStore)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level must be debug, info, warn or error, got %q", s)
	}
}

// NewLogger builds the process logger writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
