package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and validates configuration in precedence order:
// default values, then the YAML file at path, then BOT_* environment
// variables. A missing config file is not an error; missing required
// values are.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		// No config file: defaults plus environment variables apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	// Registered with empty defaults so AutomaticEnv can fill them from
	// BOT_TELEGRAM_TOKEN / BOT_TELEGRAM_ADMIN_IDS; validation rejects the
	// empty values if nothing provides them.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_ids", []int64(nil))

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("forward.default_thread_id", DefaultForwardThreadID)
	v.SetDefault("forward.messages.welcome", DefaultMsgWelcome)
	v.SetDefault("forward.messages.unknown_prefix", DefaultMsgUnknownPrefix)
	v.SetDefault("forward.messages.not_authorized", DefaultMsgNotAuthorized)
	v.SetDefault("forward.messages.target_unset", DefaultMsgTargetUnset)
	v.SetDefault("forward.messages.general_error", DefaultMsgGeneralError)

	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 0 4 * * *")
}
