// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"
	"encoding/json"
	"errors"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/relaykit/topicbot/internal/database"
)

// AdminOnly creates a middleware that checks if the message sender is one of
// the configured operators. Unauthorized senders get a rejection message and
// processing stops.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, b, update)
				return
			}

			userID := update.Message.From.ID
			if !deps.Config.IsAdmin(userID) {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "admin_only")
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chatID)

				_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   deps.Config.Forward.Messages.NotAuthorized,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}

// DebugUpdates creates a middleware that dumps the full incoming update as
// JSON when the debug_updates bot_config flag is on. The flag is toggled at
// runtime with /debug, without restarting the bot.
func DebugUpdates(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			log := deps.Logger.With("middleware", "debug_updates")

			value, err := deps.Store.GetConfigValue(ctx, database.ConfigKeyDebugUpdates)
			if err != nil && !errors.Is(err, database.ErrNotFound) {
				log.ErrorContext(ctx, "Failed to read debug flag", "error", err)
			}

			if value == "true" {
				payload, err := json.Marshal(update)
				if err != nil {
					log.ErrorContext(ctx, "Failed to marshal update for debug dump", "error", err)
				} else {
					log.InfoContext(ctx, "Update dump", "update_id", update.ID, "payload", string(payload))
				}
			}

			next(ctx, b, update)
		}
	}
}
