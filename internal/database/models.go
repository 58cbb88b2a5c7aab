package database

import (
	"database/sql"
	"time"
)

// Topic maps a short command prefix to a named destination thread in the
// target chat. The router resolves an inbound "/prefix" against this table
// to pick the message_thread_id for the forwarded message.
type Topic struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Prefix   string `db:"prefix"`
	Name     string `db:"name"`
	ThreadID int64  `db:"thread_id"`
}

// SourceChat is an origin whose messages are eligible for forwarding.
// ChatID is stored as text so both numeric IDs and @usernames fit.
type SourceChat struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	ChatID string         `db:"chat_id"`
	Name   sql.NullString `db:"name"`
	Active bool           `db:"is_active"`
}

// DisplayName returns the chat's name or a placeholder when none was set.
func (c SourceChat) DisplayName() string {
	if c.Name.Valid && c.Name.String != "" {
		return c.Name.String
	}
	return "(unnamed)"
}

// ConfigEntry is a single key/value row of global bot configuration.
type ConfigEntry struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Key         string         `db:"key"`
	Value       string         `db:"value"`
	Description sql.NullString `db:"description"`
}

// Well-known bot_config keys read by the forwarding logic.
const (
	ConfigKeyTargetChatID      = "target_chat_id"
	ConfigKeyIncludeSenderInfo = "include_sender_info"
	ConfigKeySenderFormat      = "sender_format"
	ConfigKeyDebugUpdates      = "debug_updates"
)

// DefaultConfigEntries returns the bot_config rows seeded at startup.
// Seeding goes through Store.EnsureConfig, so values already present in the
// database are never overwritten.
func DefaultConfigEntries() []ConfigEntry {
	desc := func(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
	return []ConfigEntry{
		{
			Key:         ConfigKeyTargetChatID,
			Value:       "",
			Description: desc("Chat ID messages are forwarded to"),
		},
		{
			Key:         ConfigKeyIncludeSenderInfo,
			Value:       "true",
			Description: desc("Whether to annotate forwarded messages with sender info"),
		},
		{
			Key:         ConfigKeySenderFormat,
			Value:       "{message}\nSent by: {sender_name} ({sender_username})",
			Description: desc("Template for the sender annotation"),
		},
		{
			Key:         ConfigKeyDebugUpdates,
			Value:       "false",
			Description: desc("Whether to dump full Telegram updates to the log"),
		},
	}
}
