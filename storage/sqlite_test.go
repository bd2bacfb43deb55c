package storage

import (
	"context"
	"testing"

	"github.com/richinex/switchboard/transcript"
)

func newTestSqlite(t *testing.T) *SqliteStorage {
	t.Helper()
	storage, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("failed to create in-memory SQLite: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestSqliteSaveAndLoad(t *testing.T) {
	storage := newTestSqlite(t)
	ctx := context.Background()

	turns := []transcript.Turn{
		{Role: "user", Text: "What's our refund policy?"},
		{Role: "assistant", Text: "Refunds are processed within 14 days."},
		{Role: "user", Text: "And for digital goods?"},
	}

	if err := storage.Save(ctx, "session-a", turns); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := storage.Load(ctx, "session-a")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(loaded))
	}
	for i := range turns {
		if loaded[i] != turns[i] {
			t.Errorf("turn %d: expected %+v, got %+v", i, turns[i], loaded[i])
		}
	}
}

func TestSqliteSaveOverwrites(t *testing.T) {
	storage := newTestSqlite(t)
	ctx := context.Background()

	first := []transcript.Turn{
		{Role: "user", Text: "one"},
		{Role: "assistant", Text: "two"},
	}
	if err := storage.Save(ctx, "session-a", first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := []transcript.Turn{
		{Role: "user", Text: "replaced"},
	}
	if err := storage.Save(ctx, "session-a", second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := storage.Load(ctx, "session-a")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != 1 {
		t.Fatalf("expected 1 turn after overwrite, got %d", len(loaded))
	}
	if loaded[0].Text != "replaced" {
		t.Errorf("expected 'replaced', got '%s'", loaded[0].Text)
	}
}

func TestSqliteLoadMissingSession(t *testing.T) {
	storage := newTestSqlite(t)

	loaded, err := storage.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(loaded) != 0 {
		t.Errorf("expected 0 turns, got %d", len(loaded))
	}
}

func TestSqliteDelete(t *testing.T) {
	storage := newTestSqlite(t)
	ctx := context.Background()

	turns := []transcript.Turn{{Role: "user", Text: "hello"}}
	if err := storage.Save(ctx, "session-a", turns); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := storage.Delete(ctx, "session-a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	exists, err := storage.Exists(ctx, "session-a")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected session to be gone after delete")
	}

	loaded, err := storage.Load(ctx, "session-a")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected no turns after delete, got %d", len(loaded))
	}
}

func TestSqliteListSessions(t *testing.T) {
	storage := newTestSqlite(t)
	ctx := context.Background()

	turns := []transcript.Turn{{Role: "user", Text: "hello"}}
	if err := storage.Save(ctx, "session-1", turns); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := storage.Save(ctx, "session-2", turns); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sessions, err := storage.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestSqliteSaveEmptyHistory(t *testing.T) {
	storage := newTestSqlite(t)
	ctx := context.Background()

	if err := storage.Save(ctx, "empty-session", nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	exists, err := storage.Exists(ctx, "empty-session")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected session record even with empty history")
	}
}
