package config

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultDBPath = "topicbot.db"

	DefaultForwardThreadID = 0
)

// Default reply templates. UnknownPrefix receives the sorted list of
// available prefixes as its single format argument.
const (
	DefaultMsgWelcome       = "Hi! Send a message in the form /prefix your text and I'll forward it to the matching topic."
	DefaultMsgUnknownPrefix = "No such topic. Available prefixes: %s"
	DefaultMsgNotAuthorized = "You are not authorized to use this command."
	DefaultMsgTargetUnset   = "Target chat is not configured. Set it with /set_target <chat_id>."
	DefaultMsgGeneralError  = "An error occurred. Please try again later."
)
