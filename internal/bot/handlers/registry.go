package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its pattern and
// middleware. It encapsulates all information needed to register a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all available bot
// commands. Administrative commands are wrapped in the AdminOnly middleware.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	command := func(pattern string, handler tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
		return RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     handler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  mw,
		}
	}

	admin := AdminOnly(deps)

	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = command("start", NewStartHandler(deps))
	handlers["/help"] = command("help", NewHelpHandler(deps))
	handlers["/id"] = command("id", NewIDHandler(deps))

	handlers["/topics"] = command("topics", NewTopicsListHandler(deps), admin)
	handlers["/topic_add"] = command("topic_add", NewTopicAddHandler(deps), admin)
	handlers["/topic_edit"] = command("topic_edit", NewTopicEditHandler(deps), admin)
	handlers["/topic_del"] = command("topic_del", NewTopicDeleteHandler(deps), admin)

	handlers["/chats"] = command("chats", NewChatsListHandler(deps), admin)
	handlers["/chat_add"] = command("chat_add", NewChatAddHandler(deps), admin)
	handlers["/chat_del"] = command("chat_del", NewChatDeleteHandler(deps), admin)
	handlers["/chat_on"] = command("chat_on", NewChatToggleHandler(deps, true), admin)
	handlers["/chat_off"] = command("chat_off", NewChatToggleHandler(deps, false), admin)

	handlers["/set_target"] = command("set_target", NewSetTargetHandler(deps), admin)
	handlers["/stats"] = command("stats", NewStatsHandler(deps), admin)
	handlers["/debug"] = command("debug", NewDebugHandler(deps), admin)

	return handlers
}
