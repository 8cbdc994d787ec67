package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// Controller drives the session lifecycle and the per-question cycle.
// Sessions are fully isolated from each other; the only shared state is the
// in-flight set guarding the one-cycle-per-session invariant.
type Controller struct {
	assistant interfaces.AssistantService
	storage   interfaces.SessionStorage
	events    interfaces.EventService
	logger    arbor.ILogger

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewController creates the conversation controller
func NewController(assistant interfaces.AssistantService, storage interfaces.SessionStorage, events interfaces.EventService, logger arbor.ILogger) *Controller {
	return &Controller{
		assistant: assistant,
		storage:   storage,
		events:    events,
		logger:    logger,
		inFlight:  make(map[string]bool),
	}
}

// Start creates a new active session seeded with the welcome turn
func (c *Controller) Start(ctx context.Context) (*models.ChatSession, error) {
	now := time.Now()
	session := &models.ChatSession{
		ID:    uuid.NewString(),
		State: models.SessionActive,
		Turns: []models.Turn{
			{Role: models.RoleAssistant, Content: models.WelcomeMessage, CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	c.logger.Info().Str("session", session.ID).Msg("Session started")
	c.publish(ctx, interfaces.EventSessionStarted, session.ID)

	return session, nil
}

// Get returns the session with its transcript
func (c *Controller) Get(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	return c.storage.Get(ctx, sessionID)
}

// Ask runs one question cycle. Pipeline failures never propagate as errors:
// they become an apology turn in the transcript and the session stays active
// for the next question. No automatic retry.
func (c *Controller) Ask(ctx context.Context, sessionID, question string) (*models.ChatSession, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question must not be empty")
	}

	if err := c.acquire(sessionID); err != nil {
		return nil, err
	}
	defer c.release(sessionID)

	session, err := c.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != models.SessionActive {
		return nil, interfaces.ErrSessionNotActive
	}

	session.Turns = append(session.Turns, models.Turn{
		Role:      models.RoleUser,
		Content:   question,
		CreatedAt: time.Now(),
	})
	session.UpdatedAt = time.Now()
	if err := c.storage.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to record question: %w", err)
	}

	c.publish(ctx, interfaces.EventQuestionReceived, sessionID)

	answer, answerErr := c.assistant.Answer(ctx, question)

	var content string
	if answerErr != nil {
		content = fmt.Sprintf("I apologize, an error occurred while processing your request: %v. Please try again.", answerErr)
		c.logger.Warn().Err(answerErr).Str("session", sessionID).Msg("Question cycle failed")
		c.publish(ctx, interfaces.EventCycleFailed, sessionID)
	} else {
		content = answer.Combined()
		c.publish(ctx, interfaces.EventAnswerCompleted, sessionID)
	}

	// The user may have exited while the cycle ran; an exited session keeps
	// its cleared transcript
	session, err = c.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != models.SessionActive {
		return session, nil
	}

	session.Turns = append(session.Turns, models.Turn{
		Role:      models.RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	})
	session.UpdatedAt = time.Now()
	if err := c.storage.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	return session, nil
}

// End exits the session and clears the transcript unconditionally
func (c *Controller) End(ctx context.Context, sessionID string) error {
	session, err := c.storage.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	session.State = models.SessionIdle
	session.Turns = nil
	session.UpdatedAt = time.Now()

	if err := c.storage.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	c.logger.Info().Str("session", sessionID).Msg("Session ended")
	c.publish(ctx, interfaces.EventSessionEnded, sessionID)

	return nil
}

// acquire marks a cycle in flight for the session
func (c *Controller) acquire(sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[sessionID] {
		return interfaces.ErrCycleInFlight
	}
	c.inFlight[sessionID] = true
	return nil
}

func (c *Controller) release(sessionID string) {
	c.mu.Lock()
	delete(c.inFlight, sessionID)
	c.mu.Unlock()
}

func (c *Controller) publish(ctx context.Context, eventType interfaces.EventType, sessionID string) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(ctx, interfaces.Event{Type: eventType, Payload: map[string]string{"session_id": sessionID}}); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to publish event")
	}
}
