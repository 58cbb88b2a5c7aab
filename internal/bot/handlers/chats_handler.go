package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/relaykit/topicbot/internal/database"
	"github.com/relaykit/topicbot/internal/text"
)

// NewChatsListHandler returns a handler for the /chats command.
func NewChatsListHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatsListHandler{deps}.Handle
}

type chatsListHandler struct {
	deps HandlerDeps
}

func (h chatsListHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "chats")

	msg := update.Message
	if msg == nil {
		return
	}

	chats, err := h.deps.Store.GetSourceChats(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list source chats", "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}

	if len(chats) == 0 {
		sendReply(ctx, b, h.deps.Logger, msg, "No source chats registered yet. Add one with /chat_add chat_id:name")
		return
	}

	var sb strings.Builder
	sb.WriteString("Source chats:\n")
	for _, chat := range chats {
		state := "on"
		if !chat.Active {
			state = "off"
		}
		fmt.Fprintf(&sb, "%s - %s [%s]\n", chat.ChatID, chat.DisplayName(), state)
	}
	sendReply(ctx, b, h.deps.Logger, msg, strings.TrimRight(sb.String(), "\n"))
}

// NewChatAddHandler returns a handler for the /chat_add command.
func NewChatAddHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatAddHandler{deps}.Handle
}

type chatAddHandler struct {
	deps HandlerDeps
}

func (h chatAddHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "chat_add")

	msg := update.Message
	if msg == nil {
		return
	}

	spec, err := text.ParseChatSpec(commandArgs(msg.Text))
	if err != nil {
		sendReply(ctx, b, h.deps.Logger, msg, "Usage: /chat_add chat_id:name\n"+err.Error())
		return
	}

	err = h.deps.Store.AddSourceChat(ctx, spec.ChatID, spec.Name)
	if errors.Is(err, database.ErrDuplicate) {
		sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Chat %s is already registered.", spec.ChatID))
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to add source chat", "chat_id", spec.ChatID, "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Source chat added", "chat_id", spec.ChatID, "admin_id", adminID(msg))
	sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Registered chat %s. Forwarding from it is enabled.", spec.ChatID))
}

// NewChatDeleteHandler returns a handler for the /chat_del command.
func NewChatDeleteHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatDeleteHandler{deps}.Handle
}

type chatDeleteHandler struct {
	deps HandlerDeps
}

func (h chatDeleteHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "chat_del")

	msg := update.Message
	if msg == nil {
		return
	}

	chatID := commandArgs(msg.Text)
	if chatID == "" {
		sendReply(ctx, b, h.deps.Logger, msg, "Usage: /chat_del chat_id")
		return
	}

	err := h.deps.Store.DeleteSourceChat(ctx, chatID)
	if errors.Is(err, database.ErrNotFound) {
		sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Chat %s is not registered.", chatID))
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to delete source chat", "chat_id", chatID, "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Source chat deleted", "chat_id", chatID, "admin_id", adminID(msg))
	sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Removed chat %s.", chatID))
}

// NewChatToggleHandler returns a handler for /chat_on or /chat_off depending
// on the active argument.
func NewChatToggleHandler(deps HandlerDeps, active bool) bot.HandlerFunc {
	return chatToggleHandler{deps: deps, active: active}.Handle
}

type chatToggleHandler struct {
	deps   HandlerDeps
	active bool
}

func (h chatToggleHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	command := "chat_on"
	if !h.active {
		command = "chat_off"
	}
	log := h.deps.Logger.With("handler", command)

	msg := update.Message
	if msg == nil {
		return
	}

	chatID := commandArgs(msg.Text)
	if chatID == "" {
		sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Usage: /%s chat_id", command))
		return
	}

	err := h.deps.Store.SetSourceChatActive(ctx, chatID, h.active)
	if errors.Is(err, database.ErrNotFound) {
		sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Chat %s is not registered.", chatID))
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to toggle source chat", "chat_id", chatID, "active", h.active, "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}

	state := "enabled"
	if !h.active {
		state = "disabled"
	}
	log.InfoContext(ctx, "Source chat toggled", "chat_id", chatID, "active", h.active, "admin_id", adminID(msg))
	sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Forwarding from chat %s is now %s.", chatID, state))
}
