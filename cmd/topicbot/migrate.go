package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/relaykit/topicbot/internal/config"
	"github.com/relaykit/topicbot/internal/database"
	"github.com/relaykit/topicbot/internal/logger"
)

// migrateCmd applies schema migrations and seeds the default runtime
// settings without starting the bot.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
		slog.SetDefault(log)

		db, err := database.NewDB(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database %q: %w", cfg.Database.Path, err)
		}
		defer database.CloseDB(db)

		store := database.NewStore(db, log)
		if err := store.EnsureConfig(cmd.Context(), database.DefaultConfigEntries()); err != nil {
			return fmt.Errorf("failed to seed runtime settings: %w", err)
		}

		log.Info("Migrations applied", "path", cfg.Database.Path)
		return nil
	},
}
