package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

type memoryStorage struct {
	mu       sync.Mutex
	sessions map[string]models.ChatSession
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{sessions: make(map[string]models.ChatSession)}
}

func (m *memoryStorage) Save(ctx context.Context, session *models.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memoryStorage) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, interfaces.ErrSessionNotFound
	}
	copied := session
	copied.Turns = append([]models.Turn(nil), session.Turns...)
	return &copied, nil
}

func (m *memoryStorage) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memoryStorage) List(ctx context.Context) ([]*models.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ChatSession
	for id := range m.sessions {
		session := m.sessions[id]
		out = append(out, &session)
	}
	return out, nil
}

type scriptedAssistant struct {
	answers []func() (*interfaces.Answer, error)
	calls   int
	started chan struct{}
	block   chan struct{}
}

func (s *scriptedAssistant) Answer(ctx context.Context, question string) (*interfaces.Answer, error) {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	fn := s.answers[s.calls]
	if s.calls < len(s.answers)-1 {
		s.calls++
	}
	return fn()
}

func success(text string) func() (*interfaces.Answer, error) {
	return func() (*interfaces.Answer, error) {
		return &interfaces.Answer{Text: text, CitationBlock: "\n\ncitations"}, nil
	}
}

func failure(err error) func() (*interfaces.Answer, error) {
	return func() (*interfaces.Answer, error) { return nil, err }
}

func newController(assistant interfaces.AssistantService) (*Controller, *memoryStorage) {
	storage := newMemoryStorage()
	return NewController(assistant, storage, nil, arbor.NewLogger()), storage
}

func TestStartSeedsWelcomeTurn(t *testing.T) {
	controller, _ := newController(&scriptedAssistant{answers: []func() (*interfaces.Answer, error){success("a")}})

	session, err := controller.Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if session.State != models.SessionActive {
		t.Errorf("Expected active state, got %s", session.State)
	}
	if len(session.Turns) != 1 || session.Turns[0].Content != models.WelcomeMessage {
		t.Errorf("Expected welcome seed turn, got %+v", session.Turns)
	}
	if session.Turns[0].Role != models.RoleAssistant {
		t.Errorf("Welcome turn must be an assistant turn")
	}
}

func TestAskAppendsQuestionAndAnswer(t *testing.T) {
	controller, _ := newController(&scriptedAssistant{answers: []func() (*interfaces.Answer, error){success("The answer.")}})
	ctx := context.Background()

	session, _ := controller.Start(ctx)
	updated, err := controller.Ask(ctx, session.ID, "A question?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if len(updated.Turns) != 3 {
		t.Fatalf("Expected 3 turns (welcome, question, answer), got %d", len(updated.Turns))
	}
	if updated.Turns[1].Role != models.RoleUser || updated.Turns[1].Content != "A question?" {
		t.Errorf("Unexpected user turn: %+v", updated.Turns[1])
	}
	if updated.Turns[2].Role != models.RoleAssistant || updated.Turns[2].Content != "The answer.\n\ncitations" {
		t.Errorf("Assistant turn must combine answer and citations: %+v", updated.Turns[2])
	}
}

func TestAskFailureProducesApologyTurnAndSessionSurvives(t *testing.T) {
	assistant := &scriptedAssistant{answers: []func() (*interfaces.Answer, error){
		failure(errors.New("retrieval failed: throttled")),
		success("Recovered answer."),
	}}
	controller, _ := newController(assistant)
	ctx := context.Background()

	session, _ := controller.Start(ctx)

	// Failure becomes an apology turn, not an error
	updated, err := controller.Ask(ctx, session.ID, "first question")
	if err != nil {
		t.Fatalf("Ask must not propagate pipeline failures, got %v", err)
	}
	last := updated.LastTurn()
	if last == nil || last.Role != models.RoleAssistant {
		t.Fatalf("Expected assistant turn after failure")
	}
	if !strings.Contains(last.Content, "I apologize, an error occurred while processing your request:") {
		t.Errorf("Expected apology content, got %q", last.Content)
	}
	if !strings.Contains(last.Content, "throttled") {
		t.Errorf("Apology must embed the failure description, got %q", last.Content)
	}
	if !strings.Contains(last.Content, "Please try again.") {
		t.Errorf("Apology must invite a manual retry, got %q", last.Content)
	}
	if updated.State != models.SessionActive {
		t.Errorf("Session must remain active after a failed cycle")
	}

	// The next cycle runs and succeeds
	updated, err = controller.Ask(ctx, session.ID, "second question")
	if err != nil {
		t.Fatalf("Ask after failure must still work: %v", err)
	}
	if !strings.Contains(updated.LastTurn().Content, "Recovered answer.") {
		t.Errorf("Expected successful answer after failed cycle, got %q", updated.LastTurn().Content)
	}
}

func TestEndClearsTranscriptUnconditionally(t *testing.T) {
	assistant := &scriptedAssistant{answers: []func() (*interfaces.Answer, error){
		failure(errors.New("boom")),
	}}
	controller, storage := newController(assistant)
	ctx := context.Background()

	session, _ := controller.Start(ctx)
	if _, err := controller.Ask(ctx, session.ID, "question"); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if err := controller.End(ctx, session.ID); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	stored, err := storage.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get after end failed: %v", err)
	}
	if stored.State != models.SessionIdle {
		t.Errorf("Expected idle state after end, got %s", stored.State)
	}
	if len(stored.Turns) != 0 {
		t.Errorf("Expected cleared transcript, got %d turns", len(stored.Turns))
	}

	// An ended session refuses further questions
	if _, err := controller.Ask(ctx, session.ID, "another"); !errors.Is(err, interfaces.ErrSessionNotActive) {
		t.Errorf("Expected ErrSessionNotActive, got %v", err)
	}
}

func TestAskRejectsConcurrentCycle(t *testing.T) {
	assistant := &scriptedAssistant{
		answers: []func() (*interfaces.Answer, error){success("slow answer")},
		started: make(chan struct{}),
		block:   make(chan struct{}),
	}
	controller, _ := newController(assistant)
	ctx := context.Background()

	session, _ := controller.Start(ctx)

	done := make(chan error, 1)
	go func() {
		_, err := controller.Ask(ctx, session.ID, "slow question")
		done <- err
	}()

	<-assistant.started

	// Second question while the first cycle is in flight
	_, err := controller.Ask(ctx, session.ID, "impatient question")
	if !errors.Is(err, interfaces.ErrCycleInFlight) {
		t.Errorf("Expected ErrCycleInFlight, got %v", err)
	}

	close(assistant.block)
	if err := <-done; err != nil {
		t.Errorf("First cycle failed: %v", err)
	}
}

func TestEndDuringInFlightCycleKeepsTranscriptCleared(t *testing.T) {
	assistant := &scriptedAssistant{
		answers: []func() (*interfaces.Answer, error){success("late answer")},
		started: make(chan struct{}),
		block:   make(chan struct{}),
	}
	controller, storage := newController(assistant)
	ctx := context.Background()

	session, _ := controller.Start(ctx)

	done := make(chan struct{})
	go func() {
		controller.Ask(ctx, session.ID, "question")
		close(done)
	}()

	<-assistant.started
	if err := controller.End(ctx, session.ID); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	close(assistant.block)
	<-done

	stored, _ := storage.Get(ctx, session.ID)
	if len(stored.Turns) != 0 {
		t.Errorf("Late answer must not resurrect a cleared transcript, got %d turns", len(stored.Turns))
	}
	if stored.State != models.SessionIdle {
		t.Errorf("Expected idle state, got %s", stored.State)
	}
}

func TestAskUnknownSession(t *testing.T) {
	controller, _ := newController(&scriptedAssistant{answers: []func() (*interfaces.Answer, error){success("a")}})

	_, err := controller.Ask(context.Background(), "missing", "question")
	if !errors.Is(err, interfaces.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}
