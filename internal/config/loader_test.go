package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/relaykit/topicbot/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
telegram:
  token: "123456:test-token"
  admin_ids: [42]
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != config.DefaultLogLevel {
		t.Errorf("log level = %q, want default %q", cfg.Log.Level, config.DefaultLogLevel)
	}
	if cfg.Database.Path != config.DefaultDBPath {
		t.Errorf("database path = %q, want default %q", cfg.Database.Path, config.DefaultDBPath)
	}
	if cfg.Forward.Messages.UnknownPrefix != config.DefaultMsgUnknownPrefix {
		t.Errorf("unknown_prefix message = %q, want default", cfg.Forward.Messages.UnknownPrefix)
	}
	task, ok := cfg.Scheduler.Tasks["sql_maintenance"]
	if !ok || !task.Enabled || task.Schedule == "" {
		t.Errorf("sql_maintenance task not configured by default: %+v", cfg.Scheduler.Tasks)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: debug
  json: true
telegram:
  token: "123456:test-token"
  admin_ids: [42, 43]
database:
  path: /tmp/custom.db
forward:
  default_thread_id: 17
  messages:
    welcome: "hello there"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Errorf("log config not overridden: %+v", cfg.Log)
	}
	if cfg.Database.Path != "/tmp/custom.db" {
		t.Errorf("database path = %q, want /tmp/custom.db", cfg.Database.Path)
	}
	if cfg.Forward.DefaultThreadID != 17 {
		t.Errorf("default_thread_id = %d, want 17", cfg.Forward.DefaultThreadID)
	}
	if cfg.Forward.Messages.Welcome != "hello there" {
		t.Errorf("welcome message = %q, want override", cfg.Forward.Messages.Welcome)
	}
	// Unset messages keep their defaults.
	if cfg.Forward.Messages.GeneralError != config.DefaultMsgGeneralError {
		t.Errorf("general_error message = %q, want default", cfg.Forward.Messages.GeneralError)
	}
}

func TestLoadRejectsMissingToken(t *testing.T) {
	path := writeConfigFile(t, `
telegram:
  admin_ids: [42]
`)

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for missing token, got nil")
	}
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: loud
telegram:
  token: "123456:test-token"
  admin_ids: [42]
`)

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for bad log level, got nil")
	}
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "123456:env-token")

	// admin_ids cannot come from the environment, so validation fails,
	// but the missing file itself must not be the reported problem.
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

func TestIsAdmin(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Telegram: config.TelegramConfig{AdminIDs: []int64{1, 2}}}

	if !cfg.IsAdmin(1) || !cfg.IsAdmin(2) {
		t.Error("configured admin not recognized")
	}
	if cfg.IsAdmin(3) {
		t.Error("unknown user recognized as admin")
	}
}
