// Package config manages application configuration from default values,
// a YAML config file, and BOT_* environment variables.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config defines the application configuration parameters for all
// components of the bot: logging, Telegram transport, database, forwarding
// behavior, and scheduled tasks.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Forward   ForwardConfig   `mapstructure:"forward"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls log verbosity and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and the operator allowlist.
type TelegramConfig struct {
	Token    string  `mapstructure:"token"     validate:"required"`
	AdminIDs []int64 `mapstructure:"admin_ids" validate:"required,min=1,dive,gt=0"`
}

// DatabaseConfig points at the SQLite database file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ForwardConfig tunes the forwarding router and the operator-visible
// reply templates.
type ForwardConfig struct {
	// DefaultThreadID is used when a topic maps to thread 0; 0 sends to
	// the target chat's main thread.
	DefaultThreadID int64 `mapstructure:"default_thread_id" validate:"min=0"`

	Messages MessagesConfig `mapstructure:"messages"`
}

// MessagesConfig holds the reply templates sent back to users and admins.
type MessagesConfig struct {
	Welcome       string `mapstructure:"welcome"        validate:"required"`
	UnknownPrefix string `mapstructure:"unknown_prefix" validate:"required"`
	NotAuthorized string `mapstructure:"not_authorized" validate:"required"`
	TargetUnset   string `mapstructure:"target_unset"   validate:"required"`
	GeneralError  string `mapstructure:"general_error"  validate:"required"`
}

// SchedulerConfig lists the scheduled background tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a named task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// Validate checks the configuration against the struct validation tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsAdmin reports whether userID is one of the configured operators.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
