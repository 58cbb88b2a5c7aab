package database_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/relaykit/topicbot/internal/database"
)

// newTestStore opens an in-memory database with migrations applied and
// returns a store over it.
func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAddTopicDuplicatePrefix(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddTopic(ctx, &database.Topic{Prefix: "sky", Name: "Sky", ThreadID: 289}); err != nil {
		t.Fatalf("first AddTopic failed: %v", err)
	}

	err := store.AddTopic(ctx, &database.Topic{Prefix: "sky", Name: "Other", ThreadID: 12})
	if !errors.Is(err, database.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for duplicate prefix, got %v", err)
	}

	// Prefixes are case-insensitive, so a different casing is still a duplicate.
	err = store.AddTopic(ctx, &database.Topic{Prefix: "SKY", Name: "Other", ThreadID: 12})
	if !errors.Is(err, database.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for case-variant prefix, got %v", err)
	}
}

func TestGetTopicByPrefix(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddTopic(ctx, &database.Topic{Prefix: "Lab", Name: "Laboratory", ThreadID: 42}); err != nil {
		t.Fatalf("AddTopic failed: %v", err)
	}

	// Lookup is case-insensitive and tolerates a leading slash.
	for _, lookup := range []string{"lab", "LAB", "/lab"} {
		topic, err := store.GetTopicByPrefix(ctx, lookup)
		if err != nil {
			t.Fatalf("GetTopicByPrefix(%q) failed: %v", lookup, err)
		}
		if topic.Prefix != "lab" || topic.Name != "Laboratory" || topic.ThreadID != 42 {
			t.Fatalf("GetTopicByPrefix(%q) returned unexpected topic %+v", lookup, topic)
		}
	}

	if _, err := store.GetTopicByPrefix(ctx, "nope"); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown prefix, got %v", err)
	}
}

func TestUpdateTopic(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddTopic(ctx, &database.Topic{Prefix: "ops", Name: "Operations", ThreadID: 7}); err != nil {
		t.Fatalf("AddTopic failed: %v", err)
	}

	// Partial update: only the thread ID changes.
	newThread := int64(99)
	if err := store.UpdateTopic(ctx, "ops", nil, &newThread); err != nil {
		t.Fatalf("UpdateTopic failed: %v", err)
	}

	topic, err := store.GetTopicByPrefix(ctx, "ops")
	if err != nil {
		t.Fatalf("GetTopicByPrefix failed: %v", err)
	}
	if topic.Name != "Operations" {
		t.Errorf("name changed unexpectedly: got %q", topic.Name)
	}
	if topic.ThreadID != 99 {
		t.Errorf("thread_id not updated: got %d, want 99", topic.ThreadID)
	}

	newName := "Ops Room"
	if err := store.UpdateTopic(ctx, "missing", &newName, nil); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown prefix, got %v", err)
	}
	if err := store.UpdateTopic(ctx, "ops", nil, nil); err == nil {
		t.Fatal("expected error for empty update, got nil")
	}
}

func TestDeleteTopic(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddTopic(ctx, &database.Topic{Prefix: "tmp", Name: "Temp", ThreadID: 1}); err != nil {
		t.Fatalf("AddTopic failed: %v", err)
	}
	if err := store.DeleteTopic(ctx, "tmp"); err != nil {
		t.Fatalf("DeleteTopic failed: %v", err)
	}
	if _, err := store.GetTopicByPrefix(ctx, "tmp"); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteTopic(ctx, "tmp"); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestGetTopicsOrdered(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	for _, topic := range []database.Topic{
		{Prefix: "zulu", Name: "Z", ThreadID: 3},
		{Prefix: "alpha", Name: "A", ThreadID: 1},
		{Prefix: "mike", Name: "M", ThreadID: 2},
	} {
		topic := topic
		if err := store.AddTopic(ctx, &topic); err != nil {
			t.Fatalf("AddTopic(%q) failed: %v", topic.Prefix, err)
		}
	}

	topics, err := store.GetTopics(ctx)
	if err != nil {
		t.Fatalf("GetTopics failed: %v", err)
	}
	want := []string{"alpha", "mike", "zulu"}
	if len(topics) != len(want) {
		t.Fatalf("got %d topics, want %d", len(topics), len(want))
	}
	for i, prefix := range want {
		if topics[i].Prefix != prefix {
			t.Errorf("topics[%d].Prefix = %q, want %q", i, topics[i].Prefix, prefix)
		}
	}
}

func TestAddSourceChatDuplicate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddSourceChat(ctx, "-1001234567890", "Main group"); err != nil {
		t.Fatalf("first AddSourceChat failed: %v", err)
	}

	err := store.AddSourceChat(ctx, "-1001234567890", "Same group again")
	if !errors.Is(err, database.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for duplicate chat_id, got %v", err)
	}
}

func TestSourceChatToggleObservable(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddSourceChat(ctx, "-100", "Group"); err != nil {
		t.Fatalf("AddSourceChat failed: %v", err)
	}

	// New chats are active by default.
	active, err := store.GetActiveSourceChatIDs(ctx)
	if err != nil {
		t.Fatalf("GetActiveSourceChatIDs failed: %v", err)
	}
	if _, ok := active["-100"]; !ok {
		t.Fatal("new source chat not in active set")
	}

	if err := store.SetSourceChatActive(ctx, "-100", false); err != nil {
		t.Fatalf("SetSourceChatActive failed: %v", err)
	}

	// The toggle is observable on the next lookup.
	chat, err := store.GetSourceChat(ctx, "-100")
	if err != nil {
		t.Fatalf("GetSourceChat failed: %v", err)
	}
	if chat.Active {
		t.Error("chat still active after deactivation")
	}
	active, err = store.GetActiveSourceChatIDs(ctx)
	if err != nil {
		t.Fatalf("GetActiveSourceChatIDs failed: %v", err)
	}
	if _, ok := active["-100"]; ok {
		t.Error("deactivated chat still in active set")
	}

	if err := store.SetSourceChatActive(ctx, "unknown", true); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown chat, got %v", err)
	}
}

func TestDeleteSourceChat(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddSourceChat(ctx, "-200", ""); err != nil {
		t.Fatalf("AddSourceChat failed: %v", err)
	}
	if err := store.DeleteSourceChat(ctx, "-200"); err != nil {
		t.Fatalf("DeleteSourceChat failed: %v", err)
	}
	if _, err := store.GetSourceChat(ctx, "-200"); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteSourceChat(ctx, "-200"); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestMigrationSeedsConfig(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	value, err := store.GetConfigValue(ctx, database.ConfigKeyIncludeSenderInfo)
	if err != nil {
		t.Fatalf("GetConfigValue failed: %v", err)
	}
	if value != "true" {
		t.Errorf("include_sender_info = %q, want %q", value, "true")
	}

	value, err = store.GetConfigValue(ctx, database.ConfigKeySenderFormat)
	if err != nil {
		t.Fatalf("GetConfigValue failed: %v", err)
	}
	if value == "" {
		t.Error("sender_format seed is empty")
	}
}

func TestEnsureConfigIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	// Change a seeded value, then re-run seeding: the change must survive.
	if err := store.SetConfigValue(ctx, database.ConfigKeyTargetChatID, "-100555", nil); err != nil {
		t.Fatalf("SetConfigValue failed: %v", err)
	}

	for range 2 {
		if err := store.EnsureConfig(ctx, database.DefaultConfigEntries()); err != nil {
			t.Fatalf("EnsureConfig failed: %v", err)
		}
	}

	value, err := store.GetConfigValue(ctx, database.ConfigKeyTargetChatID)
	if err != nil {
		t.Fatalf("GetConfigValue failed: %v", err)
	}
	if value != "-100555" {
		t.Errorf("seeding overwrote target_chat_id: got %q, want %q", value, "-100555")
	}

	config, err := store.GetAllConfig(ctx)
	if err != nil {
		t.Fatalf("GetAllConfig failed: %v", err)
	}
	for _, entry := range database.DefaultConfigEntries() {
		if _, ok := config[entry.Key]; !ok {
			t.Errorf("seeded key %q missing from config", entry.Key)
		}
	}
}

func TestGetConfigValueNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.GetConfigValue(context.Background(), "no_such_key")
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown key, got %v", err)
	}
}

func TestSetConfigValueUpsert(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	desc := "Operator override"
	if err := store.SetConfigValue(ctx, "custom_key", "one", &desc); err != nil {
		t.Fatalf("SetConfigValue insert failed: %v", err)
	}
	if err := store.SetConfigValue(ctx, "custom_key", "two", nil); err != nil {
		t.Fatalf("SetConfigValue update failed: %v", err)
	}

	value, err := store.GetConfigValue(ctx, "custom_key")
	if err != nil {
		t.Fatalf("GetConfigValue failed: %v", err)
	}
	if value != "two" {
		t.Errorf("upsert did not update value: got %q, want %q", value, "two")
	}

	config, err := store.GetAllConfig(ctx)
	if err != nil {
		t.Fatalf("GetAllConfig failed: %v", err)
	}
	if config["custom_key"] != "two" {
		t.Errorf("GetAllConfig[custom_key] = %q, want %q", config["custom_key"], "two")
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Fatalf("RunSQLMaintenance failed: %v", err)
	}
}
