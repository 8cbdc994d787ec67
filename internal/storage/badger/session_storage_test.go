package badger

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "badger-test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return &BadgerDB{store: store}
}

func TestSessionPersistence(t *testing.T) {
	db := newTestDB(t)
	logger := arbor.NewLogger()
	storage := NewSessionStorage(db, logger)

	ctx := context.Background()

	session := &models.ChatSession{
		ID:        "session-1",
		State:     models.SessionActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Turns: []models.Turn{
			{Role: models.RoleAssistant, Content: models.WelcomeMessage, CreatedAt: time.Now()},
		},
	}

	if err := storage.Save(ctx, session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	loaded, err := storage.Get(ctx, "session-1")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if loaded.State != models.SessionActive {
		t.Errorf("Expected active state, got %s", loaded.State)
	}
	if len(loaded.Turns) != 1 {
		t.Fatalf("Expected 1 turn, got %d", len(loaded.Turns))
	}
	if loaded.Turns[0].Content != models.WelcomeMessage {
		t.Errorf("Unexpected welcome turn content: %s", loaded.Turns[0].Content)
	}

	// Appending turns and re-saving replaces the record
	loaded.Turns = append(loaded.Turns, models.Turn{
		Role:      models.RoleUser,
		Content:   "What is the recommended screening interval?",
		CreatedAt: time.Now(),
	})
	loaded.UpdatedAt = time.Now()
	if err := storage.Save(ctx, loaded); err != nil {
		t.Fatalf("Failed to update session: %v", err)
	}

	updated, err := storage.Get(ctx, "session-1")
	if err != nil {
		t.Fatalf("Failed to reload session: %v", err)
	}
	if len(updated.Turns) != 2 {
		t.Errorf("Expected 2 turns after update, got %d", len(updated.Turns))
	}
}

func TestSessionNotFound(t *testing.T) {
	db := newTestDB(t)
	storage := NewSessionStorage(db, arbor.NewLogger())

	_, err := storage.Get(context.Background(), "missing")
	if err != interfaces.ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionDelete(t *testing.T) {
	db := newTestDB(t)
	storage := NewSessionStorage(db, arbor.NewLogger())
	ctx := context.Background()

	session := &models.ChatSession{ID: "session-2", State: models.SessionIdle, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := storage.Save(ctx, session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	if err := storage.Delete(ctx, "session-2"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := storage.Get(ctx, "session-2"); err != interfaces.ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}

	// Deleting an absent session is not an error
	if err := storage.Delete(ctx, "session-2"); err != nil {
		t.Errorf("Expected nil deleting absent session, got %v", err)
	}
}
