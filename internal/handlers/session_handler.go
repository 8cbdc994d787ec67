package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// SessionHandler manages the session lifecycle over HTTP
type SessionHandler struct {
	sessions interfaces.SessionService
	export   interfaces.ExportService
	logger   arbor.ILogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions interfaces.SessionService, export interfaces.ExportService, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		export:   export,
		logger:   logger,
	}
}

// StartHandler handles POST /api/session/start
func (h *SessionHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	session, err := h.sessions.Start(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to start session")
		WriteError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"session": session,
	})
}

// SessionRoutes dispatches /api/session/{id} and subpaths
func (h *SessionHandler) SessionRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/session/")
	parts := strings.Split(path, "/")
	sessionID := parts[0]
	if sessionID == "" {
		WriteError(w, http.StatusBadRequest, "Session id is required")
		return
	}

	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.getSession(w, r, sessionID)
	case action == "exit" && r.Method == http.MethodPost:
		h.endSession(w, r, sessionID)
	case action == "export" && r.Method == http.MethodGet:
		h.exportSession(w, r, sessionID)
	default:
		WriteError(w, http.StatusNotFound, "Unknown session operation")
	}
}

func (h *SessionHandler) getSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, interfaces.ErrSessionNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"session": session,
	})
}

func (h *SessionHandler) endSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.sessions.End(r.Context(), sessionID); err != nil {
		if errors.Is(err, interfaces.ErrSessionNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		h.logger.Error().Err(err).Str("session", sessionID).Msg("Failed to end session")
		WriteError(w, http.StatusInternalServerError, "Failed to end session")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// exportSession handles GET /api/session/{id}/export?format=markdown|html|pdf
func (h *SessionHandler) exportSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, interfaces.ErrSessionNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "markdown"
	}

	filename := fmt.Sprintf("transcript-%s", sessionID)

	switch format {
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".md"))
		w.Write([]byte(h.export.Markdown(session)))

	case "html":
		html, err := h.export.HTML(session)
		if err != nil {
			h.logger.Error().Err(err).Msg("Transcript HTML export failed")
			WriteError(w, http.StatusInternalServerError, "Export failed")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(html)

	case "pdf":
		pdf, err := h.export.PDF(session)
		if err != nil {
			h.logger.Error().Err(err).Msg("Transcript PDF export failed")
			WriteError(w, http.StatusInternalServerError, "Export failed")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".pdf"))
		w.Write(pdf)

	default:
		WriteError(w, http.StatusBadRequest, "Unsupported format: "+format)
	}
}
