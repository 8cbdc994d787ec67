package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// ChatRequest is one question against an active session
type ChatRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Question  string `json:"question" validate:"required"`
}

var chatValidate = validator.New()

// ChatHandler handles the per-question cycle over HTTP
type ChatHandler struct {
	sessions interfaces.SessionService
	logger   arbor.ILogger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(sessions interfaces.SessionService, logger arbor.ILogger) *ChatHandler {
	return &ChatHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// AskHandler handles POST /api/chat requests. Pipeline failures surface as a
// normal transcript turn, not an HTTP error; only request-level problems
// (unknown session, concurrent cycle, bad payload) produce error statuses.
func (h *ChatHandler) AskHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode chat request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := chatValidate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "session_id and question fields are required")
		return
	}

	h.logger.Info().
		Str("session", req.SessionID).
		Int("question_length", len(req.Question)).
		Msg("Processing question")

	session, err := h.sessions.Ask(r.Context(), req.SessionID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrSessionNotFound):
			WriteError(w, http.StatusNotFound, "Session not found")
		case errors.Is(err, interfaces.ErrSessionNotActive):
			WriteError(w, http.StatusConflict, "Session has ended; start a new chat")
		case errors.Is(err, interfaces.ErrCycleInFlight):
			WriteError(w, http.StatusTooManyRequests, "A question is already being processed for this session")
		default:
			h.logger.Error().Err(err).Msg("Question cycle failed")
			WriteError(w, http.StatusInternalServerError, "Failed to process question: "+err.Error())
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"session": session,
		"answer":  session.LastTurn(),
	})
}
