// Package text implements the small parsing and formatting helpers used by
// the forwarding router and the admin commands: routing-command splitting,
// sender-annotation templates, and the admin argument formats.
package text

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// forwardRe splits a routing command into its prefix and payload:
// "/sky 27.5" -> ("sky", "27.5").
var forwardRe = regexp.MustCompile(`^/(\w+)\s*(.*)$`)

// ParseForward splits a routing command into a lowercased prefix and the
// trimmed message content. ok is false when the text is not a command.
func ParseForward(s string) (prefix, content string, ok bool) {
	m := forwardRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	return strings.ToLower(m[1]), strings.TrimSpace(m[2]), true
}

// Sender describes the author of a forwarded message for annotation.
type Sender struct {
	Name     string
	Username string // without the leading @
	ID       int64
}

// RenderSender expands the sender-annotation template. Supported
// placeholders: {message}, {sender_name}, {sender_username}, {sender_id}.
// Missing sender fields render as readable fallbacks rather than as empty
// strings.
func RenderSender(template, message string, sender Sender) string {
	name := sender.Name
	if name == "" {
		name = "Unknown"
	}
	username := "no username"
	if sender.Username != "" {
		username = "@" + sender.Username
	}
	id := "unknown"
	if sender.ID != 0 {
		id = strconv.FormatInt(sender.ID, 10)
	}

	r := strings.NewReplacer(
		"{message}", message,
		"{sender_name}", name,
		"{sender_username}", username,
		"{sender_id}", id,
	)
	return r.Replace(template)
}

// TopicSpec is the parsed form of the /topic_add argument
// "prefix:name:thread_id".
type TopicSpec struct {
	Prefix   string
	Name     string
	ThreadID int64
}

// ParseTopicSpec parses "prefix:name:thread_id". The name may itself
// contain colons; the thread ID is the part after the last one.
func ParseTopicSpec(s string) (TopicSpec, error) {
	s = strings.TrimSpace(s)

	first := strings.Index(s, ":")
	last := strings.LastIndex(s, ":")
	if first == -1 || first == last {
		return TopicSpec{}, fmt.Errorf("expected format prefix:name:thread_id, got %q", s)
	}

	spec := TopicSpec{
		Prefix: strings.TrimSpace(strings.TrimPrefix(s[:first], "/")),
		Name:   strings.TrimSpace(s[first+1 : last]),
	}
	if spec.Prefix == "" {
		return TopicSpec{}, fmt.Errorf("prefix cannot be empty")
	}
	if spec.Name == "" {
		return TopicSpec{}, fmt.Errorf("name cannot be empty")
	}

	threadID, err := strconv.ParseInt(strings.TrimSpace(s[last+1:]), 10, 64)
	if err != nil {
		return TopicSpec{}, fmt.Errorf("thread_id must be a number: %w", err)
	}
	spec.ThreadID = threadID

	return spec, nil
}

// ChatSpec is the parsed form of the /chat_add argument "chat_id:name".
// The name part is optional.
type ChatSpec struct {
	ChatID string
	Name   string
}

// ParseChatSpec parses "chat_id:name" or a bare "chat_id".
func ParseChatSpec(s string) (ChatSpec, error) {
	s = strings.TrimSpace(s)

	chatID, name, _ := strings.Cut(s, ":")
	spec := ChatSpec{
		ChatID: strings.TrimSpace(chatID),
		Name:   strings.TrimSpace(name),
	}
	if spec.ChatID == "" {
		return ChatSpec{}, fmt.Errorf("chat_id cannot be empty")
	}

	return spec, nil
}

// Truncate shortens s for log previews, appending "..." when cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
