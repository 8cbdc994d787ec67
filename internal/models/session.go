package models

import "time"

// SessionState represents the lifecycle state of a chat session
type SessionState string

const (
	// SessionIdle indicates the session has ended (or never started) and
	// holds no transcript
	SessionIdle SessionState = "idle"

	// SessionActive indicates the session is accepting questions
	SessionActive SessionState = "active"
)

// Turn roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// WelcomeMessage seeds the transcript when a session starts
const WelcomeMessage = "Please type your question below!"

// Turn is a single transcript entry. Turns are immutable once appended; a
// successful assistant turn contains the generated answer concatenated with
// the rendered citation block.
type Turn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSession holds the ordered transcript for one browser session. A session
// is exclusively owned by its creator and is never shared; exiting the
// session clears the transcript unconditionally.
type ChatSession struct {
	ID        string       `json:"id" badgerhold:"key"`
	State     SessionState `json:"state"`
	Turns     []Turn       `json:"turns"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// LastTurn returns the most recent transcript entry, or nil for an empty
// transcript.
func (s *ChatSession) LastTurn() *Turn {
	if len(s.Turns) == 0 {
		return nil
	}
	return &s.Turns[len(s.Turns)-1]
}
