// Package migrations embeds the SQL migration files that define the bot's
// configuration schema (topics, source_chats, bot_config).
package migrations

import "embed"

// FS holds the embedded SQL migration files, applied by golang-migrate.
//
//go:embed *.sql
var FS embed.FS
