// Package main contains the entrypoint for the topic forwarding bot.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/relaykit/topicbot/internal/bot"
	"github.com/relaykit/topicbot/internal/bot/handlers"
	"github.com/relaykit/topicbot/internal/bot/tasks"
	"github.com/relaykit/topicbot/internal/config"
	"github.com/relaykit/topicbot/internal/database"
	"github.com/relaykit/topicbot/internal/logger"
	"github.com/relaykit/topicbot/internal/telegram"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "topicbot",
	Short: "Telegram bot that forwards prefixed messages into forum topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runBot(ctx)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.yaml", "path to configuration file")
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runBot initializes all components, runs the bot until the context is
// cancelled, and shuts everything down.
func runBot(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database %q: %w", cfg.Database.Path, err)
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	// Seed missing runtime settings without clobbering operator changes.
	if err := store.EnsureConfig(ctx, database.DefaultConfigEntries()); err != nil {
		return fmt.Errorf("failed to seed runtime settings: %w", err)
	}

	hDeps := handlers.HandlerDeps{
		Logger: log,
		Config: cfg,
		Store:  store,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Config: cfg,
		Store:  store,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log), handlers.DebugUpdates(hDeps)),
		tgbot.WithDefaultHandler(handlers.NewForwardHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		return fmt.Errorf("failed to register telegram handlers: %w", err)
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	app := bot.NewBot(log, cfg, store, tg, sched)

	log.Info("Starting bot")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Give the log handler a moment to flush.
		time.Sleep(time.Second)
		return runErr
	}

	log.Info("Bot stopped gracefully")
	return nil
}
