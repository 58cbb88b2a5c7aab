package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpPublic = `Send /prefix followed by your message in a registered chat and it will be forwarded to the matching topic.

/start - show the welcome message
/help - show this help
/id - show the current chat and thread IDs`

const helpAdmin = `

Admin commands:
/topics - list routing prefixes
/topic_add prefix:name:thread_id - add a prefix
/topic_edit prefix:name:thread_id - change name or thread of a prefix
/topic_del prefix - remove a prefix
/chats - list source chats
/chat_add chat_id:name - register a source chat
/chat_del chat_id - remove a source chat
/chat_on chat_id - enable forwarding from a chat
/chat_off chat_id - disable forwarding from a chat
/set_target chat_id - set the target chat
/stats - show routing table sizes
/debug on|off - toggle update logging`

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "help")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Help handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	log.InfoContext(ctx, "Handling /help command", "chat_id", update.Message.Chat.ID, "user_id", update.Message.From.ID)

	var sb strings.Builder
	sb.WriteString(helpPublic)
	if h.deps.Config.IsAdmin(update.Message.From.ID) {
		sb.WriteString(helpAdmin)
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: update.Message.Chat.ID, Text: sb.String()})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send help message", "error", err, "chat_id", update.Message.Chat.ID)
	}
}
