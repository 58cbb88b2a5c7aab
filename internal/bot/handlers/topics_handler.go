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

// NewTopicsListHandler returns a handler for the /topics command.
func NewTopicsListHandler(deps HandlerDeps) bot.HandlerFunc {
	return topicsListHandler{deps}.Handle
}

type topicsListHandler struct {
	deps HandlerDeps
}

func (h topicsListHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "topics")

	msg := update.Message
	if msg == nil {
		return
	}

	topics, err := h.deps.Store.GetTopics(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list topics", "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}

	if len(topics) == 0 {
		sendReply(ctx, b, h.deps.Logger, msg, "No topics registered yet. Add one with /topic_add prefix:name:thread_id")
		return
	}

	var sb strings.Builder
	sb.WriteString("Registered topics:\n")
	for _, topic := range topics {
		fmt.Fprintf(&sb, "/%s - %s (thread %d)\n", topic.Prefix, topic.Name, topic.ThreadID)
	}
	sendReply(ctx, b, h.deps.Logger, msg, strings.TrimRight(sb.String(), "\n"))
}

// NewTopicAddHandler returns a handler for the /topic_add command.
func NewTopicAddHandler(deps HandlerDeps) bot.HandlerFunc {
	return topicAddHandler{deps}.Handle
}

type topicAddHandler struct {
	deps HandlerDeps
}

func (h topicAddHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "topic_add")

	msg := update.Message
	if msg == nil {
		return
	}

	spec, err := text.ParseTopicSpec(commandArgs(msg.Text))
	if err != nil {
		sendReply(ctx, b, h.deps.Logger, msg, "Usage: /topic_add prefix:name:thread_id\n"+err.Error())
		return
	}

	topic := &database.Topic{Prefix: spec.Prefix, Name: spec.Name, ThreadID: spec.ThreadID}
	err = h.deps.Store.AddTopic(ctx, topic)
	if errors.Is(err, database.ErrDuplicate) {
		sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Prefix /%s is already registered. Use /topic_edit to change it.", topic.Prefix))
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to add topic", "prefix", spec.Prefix, "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Topic added", "prefix", topic.Prefix, "thread_id", topic.ThreadID, "admin_id", adminID(msg))
	sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Added /%s -> %s (thread %d)", topic.Prefix, topic.Name, topic.ThreadID))
}

// NewTopicEditHandler returns a handler for the /topic_edit command.
func NewTopicEditHandler(deps HandlerDeps) bot.HandlerFunc {
	return topicEditHandler{deps}.Handle
}

type topicEditHandler struct {
	deps HandlerDeps
}

func (h topicEditHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "topic_edit")

	msg := update.Message
	if msg == nil {
		return
	}

	spec, err := text.ParseTopicSpec(commandArgs(msg.Text))
	if err != nil {
		sendReply(ctx, b, h.deps.Logger, msg, "Usage: /topic_edit prefix:name:thread_id\n"+err.Error())
		return
	}

	err = h.deps.Store.UpdateTopic(ctx, spec.Prefix, &spec.Name, &spec.ThreadID)
	if errors.Is(err, database.ErrNotFound) {
		sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("No topic registered under /%s. Add it with /topic_add.", spec.Prefix))
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to update topic", "prefix", spec.Prefix, "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Topic updated", "prefix", spec.Prefix, "thread_id", spec.ThreadID, "admin_id", adminID(msg))
	sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Updated /%s -> %s (thread %d)", spec.Prefix, spec.Name, spec.ThreadID))
}

// NewTopicDeleteHandler returns a handler for the /topic_del command.
func NewTopicDeleteHandler(deps HandlerDeps) bot.HandlerFunc {
	return topicDeleteHandler{deps}.Handle
}

type topicDeleteHandler struct {
	deps HandlerDeps
}

func (h topicDeleteHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "topic_del")

	msg := update.Message
	if msg == nil {
		return
	}

	prefix := strings.TrimPrefix(commandArgs(msg.Text), "/")
	if prefix == "" {
		sendReply(ctx, b, h.deps.Logger, msg, "Usage: /topic_del prefix")
		return
	}

	err := h.deps.Store.DeleteTopic(ctx, prefix)
	if errors.Is(err, database.ErrNotFound) {
		sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("No topic registered under /%s.", strings.ToLower(prefix)))
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to delete topic", "prefix", prefix, "error", err)
		sendReply(ctx, b, h.deps.Logger, msg, h.deps.Config.Forward.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Topic deleted", "prefix", prefix, "admin_id", adminID(msg))
	sendReply(ctx, b, h.deps.Logger, msg, fmt.Sprintf("Removed /%s.", strings.ToLower(prefix)))
}
