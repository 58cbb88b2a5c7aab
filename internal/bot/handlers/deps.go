package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/relaykit/topicbot/internal/config"
	"github.com/relaykit/topicbot/internal/database"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
}

// commandArgs returns the text after the command token itself, so
// "/topic_add 1:Sky:289" yields "1:Sky:289".
func commandArgs(msgText string) string {
	_, args, _ := strings.Cut(strings.TrimSpace(msgText), " ")
	return strings.TrimSpace(args)
}

// sendReply sends replyText into the chat msg came from, as a reply.
func sendReply(ctx context.Context, b *bot.Bot, log *slog.Logger, msg *models.Message, replyText string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            replyText,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "chat_id", msg.Chat.ID, "error", err)
	}
}

// adminID extracts the sender ID for audit logging.
func adminID(msg *models.Message) int64 {
	if msg.From == nil {
		return 0
	}
	return msg.From.ID
}
