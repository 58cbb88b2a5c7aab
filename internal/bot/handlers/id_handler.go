package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewIDHandler returns a handler for the /id command. It reports the chat ID
// and, inside a forum topic, the thread ID, which is what an operator needs
// to fill the routing tables.
func NewIDHandler(deps HandlerDeps) bot.HandlerFunc {
	return idHandler{deps}.Handle
}

type idHandler struct {
	deps HandlerDeps
}

func (h idHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "id")

	msg := update.Message
	if msg == nil {
		return
	}

	reply := fmt.Sprintf("Chat ID: %d\nChat type: %s", msg.Chat.ID, msg.Chat.Type)
	if msg.Chat.Title != "" {
		reply += "\nTitle: " + msg.Chat.Title
	}
	if msg.MessageThreadID != 0 {
		reply += fmt.Sprintf("\nThread ID: %d", msg.MessageThreadID)
	}
	if msg.From != nil {
		reply += fmt.Sprintf("\nYour user ID: %d", msg.From.ID)
	}

	params := &bot.SendMessageParams{ChatID: msg.Chat.ID, Text: reply}
	if msg.MessageThreadID != 0 {
		params.MessageThreadID = msg.MessageThreadID
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		log.ErrorContext(ctx, "Failed to send id reply", "error", err, "chat_id", msg.Chat.ID)
	}
}
