package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/relaykit/topicbot/internal/database"
)

// NewSetTargetHandler returns a handler for the /set_target command.
func NewSetTargetHandler(deps HandlerDeps) bot.HandlerFunc {
	return setTargetHandler{deps}.Handle
}

type setTargetHandler struct {
	deps HandlerDeps
}

func (h setTargetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "set_target")

	msg := update.Message
	if msg == nil {
		return
	}

	target := commandArgs(msg.Text)
	if target == "" {
		current, err := h.deps.Store.GetConfigValue(ctx, database.ConfigKeyTargetChatID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			log.ErrorContext(ctx, "Failed to read target chat", "error", err)
			sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
			return
		}
		if current == "" {
			sendReply(ctx, b, h.deps.Logger, msg, "No target chat set. Usage: /set_target chat_id")
			return
		}
		sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Current target chat: %s", current))
		return
	}

	if err := h.deps.Store.SetConfigValue(ctx, database.ConfigKeyTargetChatID, target, nil); err != nil {
		log.ErrorContext(ctx, "Failed to set target chat", "target", target, "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Target chat changed", "target", target, "admin_id", adminID(msg))
	sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Target chat set to %s.", target))
}

// NewStatsHandler returns a handler for the /stats command.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")

	msg := update.Message
	if msg == nil {
		return
	}

	topics, err := h.deps.Store.GetTopics(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load topics for stats", "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}
	chats, err := h.deps.Store.GetSourceChats(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load source chats for stats", "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}
	settings, err := h.deps.Store.GetAllConfig(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config for stats", "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}

	activeChats := 0
	for _, chat := range chats {
		if chat.Active {
			activeChats++
		}
	}

	target := settings[database.ConfigKeyTargetChatID]
	if target == "" {
		target = "(unset)"
	}

	reply := fmt.Sprintf(
		"Topics: %d\nSource chats: %d (%d active)\nTarget chat: %s\nSender info: %s\nDebug updates: %s",
		len(topics), len(chats), activeChats, target,
		settings[database.ConfigKeyIncludeSenderInfo],
		settings[database.ConfigKeyDebugUpdates],
	)
	sendReply(ctx, b, h.deps.Logger, msg, reply)
}

// NewDebugHandler returns a handler for the /debug command, which flips the
// debug_updates setting so incoming updates get dumped to the log.
func NewDebugHandler(deps HandlerDeps) bot.HandlerFunc {
	return debugHandler{deps}.Handle
}

type debugHandler struct {
	deps HandlerDeps
}

func (h debugHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "debug")

	msg := update.Message
	if msg == nil {
		return
	}

	var value string
	switch strings.ToLower(commandArgs(msg.Text)) {
	case "on", "true", "1":
		value = "true"
	case "off", "false", "0":
		value = "false"
	default:
		sendReply(ctx, b, h.deps.Logger, msg, "Usage: /debug on|off")
		return
	}

	if err := h.deps.Store.SetConfigValue(ctx, database.ConfigKeyDebugUpdates, value, nil); err != nil {
		log.ErrorContext(ctx, "Failed to toggle debug updates", "value", value, "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Debug updates toggled", "value", value, "admin_id", adminID(msg))
	sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Debug update logging is now %s.", value))
}
