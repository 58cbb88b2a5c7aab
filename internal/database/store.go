package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the data access interface over the configuration schema.
// All methods accept a context.Context for cancellation and timeouts.
// Lookups return ErrNotFound when no row matches; inserts return
// ErrDuplicate on a unique-key collision.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetTopics retrieves all topics ordered by prefix.
	GetTopics(ctx context.Context) ([]Topic, error)

	// GetTopicByPrefix retrieves the topic registered under prefix.
	GetTopicByPrefix(ctx context.Context, prefix string) (*Topic, error)

	// AddTopic inserts a new topic. The prefix is normalized to lower case.
	AddTopic(ctx context.Context, topic *Topic) error

	// UpdateTopic partially updates the topic registered under prefix.
	// A nil name or threadID leaves the current value in place.
	UpdateTopic(ctx context.Context, prefix string, name *string, threadID *int64) error

	// DeleteTopic removes the topic registered under prefix.
	DeleteTopic(ctx context.Context, prefix string) error

	// GetSourceChats retrieves all source chats ordered by name.
	GetSourceChats(ctx context.Context) ([]SourceChat, error)

	// GetActiveSourceChatIDs retrieves the chat IDs of all active source chats.
	GetActiveSourceChatIDs(ctx context.Context) (map[string]struct{}, error)

	// GetSourceChat retrieves a source chat by its chat ID.
	GetSourceChat(ctx context.Context, chatID string) (*SourceChat, error)

	// AddSourceChat registers a new source chat, active by default.
	AddSourceChat(ctx context.Context, chatID, name string) error

	// SetSourceChatActive toggles a source chat's active flag.
	SetSourceChatActive(ctx context.Context, chatID string, active bool) error

	// DeleteSourceChat removes a source chat by its chat ID.
	DeleteSourceChat(ctx context.Context, chatID string) error

	// GetConfigValue retrieves a single bot_config value by key.
	GetConfigValue(ctx context.Context, key string) (string, error)

	// GetAllConfig retrieves the whole bot_config table as a key/value map.
	GetAllConfig(ctx context.Context) (map[string]string, error)

	// SetConfigValue inserts or updates a bot_config entry. A nil
	// description keeps the existing one.
	SetConfigValue(ctx context.Context, key, value string, description *string) error

	// EnsureConfig inserts the given entries if their keys are absent.
	// Existing values are never overwritten; re-running it is a no-op.
	EnsureConfig(ctx context.Context, entries []ConfigEntry) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// normalizePrefix brings a routing prefix to its canonical stored form.
// Prefixes are matched case-insensitively and never carry the leading slash.
func normalizePrefix(prefix string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(prefix), "/"))
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetTopics retrieves all topics ordered by prefix.
func (s *sqlxStore) GetTopics(ctx context.Context) ([]Topic, error) {
	var topics []Topic
	query := `SELECT id, created_at, updated_at, prefix, name, thread_id
	          FROM topics ORDER BY prefix ASC`

	if err := s.db.SelectContext(ctx, &topics, query); err != nil {
		s.logger.ErrorContext(ctx, "Error getting topics", "error", err)
		return nil, fmt.Errorf("failed to get topics: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched topics", "count", len(topics))
	return topics, nil
}

// GetTopicByPrefix retrieves the topic registered under prefix.
func (s *sqlxStore) GetTopicByPrefix(ctx context.Context, prefix string) (*Topic, error) {
	prefix = normalizePrefix(prefix)
	if prefix == "" {
		return nil, fmt.Errorf("prefix cannot be empty")
	}

	var topic Topic
	query := `SELECT id, created_at, updated_at, prefix, name, thread_id
	          FROM topics WHERE prefix = ?`

	err := s.db.GetContext(ctx, &topic, query, prefix)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("topic %q: %w", prefix, ErrNotFound)
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting topic by prefix", "prefix", prefix, "error", err)
		return nil, fmt.Errorf("failed to get topic %q: %w", prefix, err)
	}

	return &topic, nil
}

// AddTopic inserts a new topic. Returns ErrDuplicate if the prefix is taken.
func (s *sqlxStore) AddTopic(ctx context.Context, topic *Topic) error {
	if topic == nil {
		return fmt.Errorf("cannot add nil topic")
	}
	topic.Prefix = normalizePrefix(topic.Prefix)
	if topic.Prefix == "" {
		return fmt.Errorf("topic must have a non-empty prefix")
	}
	if topic.Name == "" {
		return fmt.Errorf("topic must have a non-empty name")
	}

	now := time.Now().UTC()
	topic.CreatedAt = now
	topic.UpdatedAt = now

	query := `INSERT INTO topics (prefix, name, thread_id, created_at, updated_at)
	          VALUES (:prefix, :name, :thread_id, :created_at, :updated_at)`

	result, err := s.db.NamedExecContext(ctx, query, topic)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.WarnContext(ctx, "Topic prefix already exists", "prefix", topic.Prefix)
			return fmt.Errorf("topic %q: %w", topic.Prefix, ErrDuplicate)
		}
		s.logger.ErrorContext(ctx, "Error adding topic", "prefix", topic.Prefix, "error", err)
		return fmt.Errorf("failed to add topic %q: %w", topic.Prefix, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		topic.ID = uint(id) //nolint:gosec // row IDs fit in uint
	}

	s.logger.InfoContext(ctx, "Topic added", "prefix", topic.Prefix, "name", topic.Name, "thread_id", topic.ThreadID)
	return nil
}

// UpdateTopic partially updates the topic registered under prefix.
// Returns ErrNotFound if the prefix is unknown.
func (s *sqlxStore) UpdateTopic(ctx context.Context, prefix string, name *string, threadID *int64) error {
	prefix = normalizePrefix(prefix)
	if name == nil && threadID == nil {
		return fmt.Errorf("nothing to update for topic %q", prefix)
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if threadID != nil {
		sets = append(sets, "thread_id = ?")
		args = append(args, *threadID)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), prefix)

	query := fmt.Sprintf("UPDATE topics SET %s WHERE prefix = ?", strings.Join(sets, ", "))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating topic", "prefix", prefix, "error", err)
		return fmt.Errorf("failed to update topic %q: %w", prefix, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("topic %q: %w", prefix, ErrNotFound)
	}

	s.logger.InfoContext(ctx, "Topic updated", "prefix", prefix)
	return nil
}

// DeleteTopic removes the topic registered under prefix.
// Returns ErrNotFound if the prefix is unknown.
func (s *sqlxStore) DeleteTopic(ctx context.Context, prefix string) error {
	prefix = normalizePrefix(prefix)

	result, err := s.db.ExecContext(ctx, `DELETE FROM topics WHERE prefix = ?`, prefix)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting topic", "prefix", prefix, "error", err)
		return fmt.Errorf("failed to delete topic %q: %w", prefix, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("topic %q: %w", prefix, ErrNotFound)
	}

	s.logger.InfoContext(ctx, "Topic deleted", "prefix", prefix)
	return nil
}

// GetSourceChats retrieves all source chats ordered by name.
func (s *sqlxStore) GetSourceChats(ctx context.Context) ([]SourceChat, error) {
	var chats []SourceChat
	query := `SELECT id, created_at, updated_at, chat_id, name, is_active
	          FROM source_chats ORDER BY name ASC`

	if err := s.db.SelectContext(ctx, &chats, query); err != nil {
		s.logger.ErrorContext(ctx, "Error getting source chats", "error", err)
		return nil, fmt.Errorf("failed to get source chats: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched source chats", "count", len(chats))
	return chats, nil
}

// GetActiveSourceChatIDs retrieves the chat IDs of all active source chats.
func (s *sqlxStore) GetActiveSourceChatIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	query := `SELECT chat_id FROM source_chats WHERE is_active = 1`

	if err := s.db.SelectContext(ctx, &ids, query); err != nil {
		s.logger.ErrorContext(ctx, "Error getting active source chats", "error", err)
		return nil, fmt.Errorf("failed to get active source chats: %w", err)
	}

	active := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		active[id] = struct{}{}
	}
	return active, nil
}

// GetSourceChat retrieves a source chat by its chat ID.
func (s *sqlxStore) GetSourceChat(ctx context.Context, chatID string) (*SourceChat, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat_id cannot be empty")
	}

	var chat SourceChat
	query := `SELECT id, created_at, updated_at, chat_id, name, is_active
	          FROM source_chats WHERE chat_id = ?`

	err := s.db.GetContext(ctx, &chat, query, chatID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("source chat %q: %w", chatID, ErrNotFound)
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting source chat", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get source chat %q: %w", chatID, err)
	}

	return &chat, nil
}

// AddSourceChat registers a new source chat, active by default.
// Returns ErrDuplicate if the chat ID is already registered.
func (s *sqlxStore) AddSourceChat(ctx context.Context, chatID, name string) error {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return fmt.Errorf("chat_id cannot be empty")
	}

	now := time.Now().UTC()
	chat := SourceChat{
		ChatID:    chatID,
		Name:      sql.NullString{String: name, Valid: name != ""},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO source_chats (chat_id, name, is_active, created_at, updated_at)
	          VALUES (:chat_id, :name, :is_active, :created_at, :updated_at)`

	if _, err := s.db.NamedExecContext(ctx, query, chat); err != nil {
		if isUniqueViolation(err) {
			s.logger.WarnContext(ctx, "Source chat already exists", "chat_id", chatID)
			return fmt.Errorf("source chat %q: %w", chatID, ErrDuplicate)
		}
		s.logger.ErrorContext(ctx, "Error adding source chat", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to add source chat %q: %w", chatID, err)
	}

	s.logger.InfoContext(ctx, "Source chat added", "chat_id", chatID, "name", name)
	return nil
}

// SetSourceChatActive toggles a source chat's active flag.
// Returns ErrNotFound if the chat ID is unknown.
func (s *sqlxStore) SetSourceChatActive(ctx context.Context, chatID string, active bool) error {
	query := `UPDATE source_chats SET is_active = ?, updated_at = ? WHERE chat_id = ?`

	result, err := s.db.ExecContext(ctx, query, active, time.Now().UTC(), chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error toggling source chat", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to toggle source chat %q: %w", chatID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("source chat %q: %w", chatID, ErrNotFound)
	}

	s.logger.InfoContext(ctx, "Source chat toggled", "chat_id", chatID, "active", active)
	return nil
}

// DeleteSourceChat removes a source chat by its chat ID.
// Returns ErrNotFound if the chat ID is unknown.
func (s *sqlxStore) DeleteSourceChat(ctx context.Context, chatID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM source_chats WHERE chat_id = ?`, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting source chat", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to delete source chat %q: %w", chatID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("source chat %q: %w", chatID, ErrNotFound)
	}

	s.logger.InfoContext(ctx, "Source chat deleted", "chat_id", chatID)
	return nil
}

// GetConfigValue retrieves a single bot_config value by key.
// Returns ErrNotFound if the key is absent.
func (s *sqlxStore) GetConfigValue(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("config key cannot be empty")
	}

	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM bot_config WHERE key = ?`, key)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("config key %q: %w", key, ErrNotFound)
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting config value", "key", key, "error", err)
		return "", fmt.Errorf("failed to get config key %q: %w", key, err)
	}

	return value, nil
}

// GetAllConfig retrieves the whole bot_config table as a key/value map.
func (s *sqlxStore) GetAllConfig(ctx context.Context) (map[string]string, error) {
	var entries []ConfigEntry
	query := `SELECT id, created_at, updated_at, key, value, description FROM bot_config`

	if err := s.db.SelectContext(ctx, &entries, query); err != nil {
		s.logger.ErrorContext(ctx, "Error getting all config", "error", err)
		return nil, fmt.Errorf("failed to get bot config: %w", err)
	}

	config := make(map[string]string, len(entries))
	for _, entry := range entries {
		config[entry.Key] = entry.Value
	}
	return config, nil
}

// SetConfigValue inserts or updates a bot_config entry. A nil description
// keeps the existing one.
func (s *sqlxStore) SetConfigValue(ctx context.Context, key, value string, description *string) error {
	if key == "" {
		return fmt.Errorf("config key cannot be empty")
	}

	now := time.Now().UTC()
	query := `INSERT INTO bot_config (key, value, description, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?)
	          ON CONFLICT(key) DO UPDATE SET
	              value = excluded.value,
	              description = COALESCE(excluded.description, bot_config.description),
	              updated_at = excluded.updated_at`

	var desc sql.NullString
	if description != nil {
		desc = sql.NullString{String: *description, Valid: true}
	}

	if _, err := s.db.ExecContext(ctx, query, key, value, desc, now, now); err != nil {
		s.logger.ErrorContext(ctx, "Error setting config value", "key", key, "error", err)
		return fmt.Errorf("failed to set config key %q: %w", key, err)
	}

	s.logger.InfoContext(ctx, "Config value set", "key", key, "value", value)
	return nil
}

// EnsureConfig inserts the given entries if their keys are absent.
// Existing rows are left untouched, so re-running it is a no-op.
func (s *sqlxStore) EnsureConfig(ctx context.Context, entries []ConfigEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for config seeding", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	now := time.Now().UTC()
	query := `INSERT OR IGNORE INTO bot_config (key, value, description, created_at, updated_at)
	          VALUES (:key, :value, :description, :created_at, :updated_at)`

	seeded := 0
	for _, entry := range entries {
		entry.CreatedAt = now
		entry.UpdatedAt = now
		result, err := tx.NamedExecContext(ctx, query, entry)
		if err != nil {
			s.logger.ErrorContext(ctx, "Error seeding config entry", "key", entry.Key, "error", err)
			return fmt.Errorf("failed to seed config key %q: %w", entry.Key, err)
		}
		if affected, err := result.RowsAffected(); err == nil {
			seeded += int(affected)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit config seeding transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "Config seeding complete", "entries", len(entries), "inserted", seeded)
	return nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}
