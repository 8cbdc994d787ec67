package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// SessionService is the conversation controller. It owns the session state
// machine (idle -> active -> idle), drives the per-question cycle and holds
// the at-most-one-in-flight-per-session invariant.
type SessionService interface {
	// Start creates a new active session seeded with the welcome turn
	Start(ctx context.Context) (*models.ChatSession, error)

	// Get returns the session with its transcript
	Get(ctx context.Context, sessionID string) (*models.ChatSession, error)

	// Ask runs one question cycle: append the user turn, run the pipeline,
	// append the assistant turn. On any pipeline failure the assistant
	// turn contains an apology with the failure description and the
	// session remains active; there is no automatic retry. Returns
	// ErrCycleInFlight when a previous cycle for this session is still
	// running.
	Ask(ctx context.Context, sessionID, question string) (*models.ChatSession, error)

	// End exits the session and clears the transcript unconditionally,
	// regardless of whether the last cycle succeeded or failed
	End(ctx context.Context, sessionID string) error
}
