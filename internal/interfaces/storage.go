package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// SessionStorage persists chat sessions. Each session record is exclusively
// owned by one logical session; no cross-session sharing occurs.
type SessionStorage interface {
	// Save inserts or replaces a session record
	Save(ctx context.Context, session *models.ChatSession) error

	// Get returns a session by id, ErrSessionNotFound when absent
	Get(ctx context.Context, id string) (*models.ChatSession, error)

	// Delete removes a session record, no error when absent
	Delete(ctx context.Context, id string) error

	// List returns all stored sessions ordered by most recent update
	List(ctx context.Context) ([]*models.ChatSession, error)
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	SessionStorage() SessionStorage
	KeyValueStorage() KeyValueStorage

	// Close closes the underlying database
	Close() error
}
