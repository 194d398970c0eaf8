package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := New()
	v.Set("db_path", "/tmp/taskflow-test.db")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/taskflow-test.db", cfg.DBPath)
	assert.Equal(t, "me", cfg.UserID)
	assert.Equal(t, BackupSQLite, cfg.BackupStore)
	assert.Equal(t, "/tmp/taskflow-test-backup.db", cfg.BackupDBPath())
	assert.Equal(t, 24*time.Hour, cfg.BackupTTL)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 30*24*time.Hour, cfg.Retention())
	assert.Equal(t, int64(5*1024*1024), cfg.QuotaBytes)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".taskflow", "taskflow.db"), cfg.DBPath)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskflow.yaml")
	yaml := `
db_path: /data/tf.db
user_id: alice
retention_days: 7
tick_interval: 250ms
tasks:
  task-1: Write docs
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	v := New()
	used, err := ReadFile(v, path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/data/tf.db", cfg.DBPath)
	assert.Equal(t, "alice", cfg.UserID)
	assert.Equal(t, 7, cfg.RetentionDays)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "Write docs", cfg.Tasks["task-1"])
}

func TestReadFile_DefaultYAMLParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(DefaultYAML), 0o644))

	v := New()
	_, err := ReadFile(v, path)
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30, cfg.RetentionDays)
}

func TestReadFile_MissingExplicitPath(t *testing.T) {
	_, err := ReadFile(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TASKFLOW_USER_ID", "bob")
	t.Setenv("TASKFLOW_BACKUP_STORE", "redis")
	t.Setenv("TASKFLOW_REDIS_ADDR", "cache:6379")

	v := New()
	v.Set("db_path", "/tmp/x.db")
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.UserID)
	assert.Equal(t, BackupRedis, cfg.BackupStore)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
}

func TestBindFlag_FlagWins(t *testing.T) {
	t.Setenv("TASKFLOW_USER_ID", "from-env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("user", "", "")
	v := New()
	BindFlag(v, "user_id", fs, "user")
	require.NoError(t, fs.Parse([]string{"--user", "from-flag"}))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.UserID)
}

func TestValidate(t *testing.T) {
	valid := Config{
		DBPath: "x.db", UserID: "u", LogLevel: "info", LogFormat: "text",
		BackupStore: BackupMemory, RetentionDays: 30, TickInterval: time.Second,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty user", func(c *Config) { c.UserID = "" }},
		{"negative quota", func(c *Config) { c.QuotaBytes = -1 }},
		{"zero retention", func(c *Config) { c.RetentionDays = 0 }},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"bad backup", func(c *Config) { c.BackupStore = "s3" }},
		{"redis without addr", func(c *Config) { c.BackupStore = BackupRedis; c.RedisAddr = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Config{LogLevel: "info", LogFormat: "json"}.NewLogger(&buf)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}
