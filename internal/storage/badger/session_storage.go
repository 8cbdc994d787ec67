package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SessionStorage implements the SessionStorage interface for Badger
type SessionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSessionStorage creates a new SessionStorage instance
func NewSessionStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SessionStorage {
	return &SessionStorage{
		db:     db,
		logger: logger,
	}
}

// Save inserts or replaces a session record
func (s *SessionStorage) Save(ctx context.Context, session *models.ChatSession) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session id is required")
	}

	if err := s.db.Store().Upsert(session.ID, session); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}

	return nil
}

// Get returns a session by id
func (s *SessionStorage) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.db.Store().Get(id, &session)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}

	return &session, nil
}

// Delete removes a session record. Deleting an absent session is not an error.
func (s *SessionStorage) Delete(ctx context.Context, id string) error {
	err := s.db.Store().Delete(id, &models.ChatSession{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// List returns all stored sessions ordered by most recent update
func (s *SessionStorage) List(ctx context.Context) ([]*models.ChatSession, error) {
	var sessions []*models.ChatSession
	err := s.db.Store().Find(&sessions, badgerhold.Where("ID").Ne("").SortBy("UpdatedAt").Reverse())
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
