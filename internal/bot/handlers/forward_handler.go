package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/relaykit/topicbot/internal/database"
	"github.com/relaykit/topicbot/internal/text"
)

// NewForwardHandler returns the default handler implementing the forwarding
// router: messages of the form "/prefix content" sent in an active source
// chat are forwarded to the thread the prefix maps to in the target chat.
func NewForwardHandler(deps HandlerDeps) bot.HandlerFunc {
	return forwardHandler{deps}.Handle
}

type forwardHandler struct {
	deps HandlerDeps
}

func (h forwardHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "forward")

	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	chatID := strconv.FormatInt(msg.Chat.ID, 10)

	// Only messages from registered, active source chats are considered.
	active, err := h.deps.Store.GetActiveSourceChatIDs(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load active source chats", "error", err)
		return
	}
	if _, ok := active[chatID]; !ok {
		return
	}

	prefix, content, ok := text.ParseForward(msg.Text)
	if !ok {
		return
	}

	topic, err := h.deps.Store.GetTopicByPrefix(ctx, prefix)
	if errors.Is(err, database.ErrNotFound) {
		h.replyUnknownPrefix(ctx, b, msg, prefix)
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to resolve topic", "prefix", prefix, "error", err)
		return
	}

	target, err := h.deps.Store.GetConfigValue(ctx, database.ConfigKeyTargetChatID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		log.ErrorContext(ctx, "Failed to read target chat", "prefix", prefix, "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}
	if target == "" {
		log.WarnContext(ctx, "Target chat not configured, dropping message", "prefix", prefix)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.TargetUnset)
		return
	}

	forwarded := h.renderOutgoing(ctx, msg, content)

	threadID := topic.ThreadID
	if threadID == 0 {
		threadID = h.deps.Config.Forward.DefaultThreadID
	}

	params := &bot.SendMessageParams{
		ChatID: target,
		Text:   forwarded,
	}
	if threadID != 0 {
		params.MessageThreadID = int(threadID)
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		log.ErrorContext(ctx, "Failed to forward message",
			"prefix", prefix, "target_chat", target, "thread_id", threadID, "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Message forwarded",
		"prefix", prefix,
		"source_chat", chatID,
		"target_chat", target,
		"thread_id", threadID,
		"content_preview", text.Truncate(content, 50))
}

// renderOutgoing applies the sender annotation when include_sender_info is
// on. Missing config rows fall back to sending the bare content, with a log.
func (h forwardHandler) renderOutgoing(ctx context.Context, msg *models.Message, content string) string {
	log := h.deps.Logger.With("handler", "forward")

	include, err := h.deps.Store.GetConfigValue(ctx, database.ConfigKeyIncludeSenderInfo)
	if err != nil {
		log.WarnContext(ctx, "Failed to read include_sender_info, sending bare content", "error", err)
		return content
	}
	if include != "true" {
		return content
	}

	format, err := h.deps.Store.GetConfigValue(ctx, database.ConfigKeySenderFormat)
	if err != nil || format == "" {
		log.WarnContext(ctx, "Failed to read sender_format, sending bare content", "error", err)
		return content
	}

	sender := text.Sender{}
	if msg.From != nil {
		sender.Name = strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
		sender.Username = msg.From.Username
		sender.ID = msg.From.ID
	}

	return text.RenderSender(format, content, sender)
}

// replyUnknownPrefix answers an unroutable command with the sorted list of
// available prefixes.
func (h forwardHandler) replyUnknownPrefix(ctx context.Context, b *bot.Bot, msg *models.Message, prefix string) {
	log := h.deps.Logger.With("handler", "forward")

	topics, err := h.deps.Store.GetTopics(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list topics for unknown-prefix reply", "error", err)
		return
	}

	prefixes := make([]string, 0, len(topics))
	for _, topic := range topics {
		prefixes = append(prefixes, "/"+topic.Prefix)
	}

	reply := fmt.Sprintf(h.deps.Config.Forward.Messages.UnknownPrefix, strings.Join(prefixes, ", "))
	sendReply(ctx, b, h.deps.Logger, msg, reply)

	log.InfoContext(ctx, "Unknown prefix, sent available list", "prefix", prefix, "available", len(prefixes))
}
