package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// IngestHandler triggers knowledge base ingestion jobs
type IngestHandler struct {
	ingestion interfaces.IngestionService
	logger    arbor.ILogger
}

// NewIngestHandler creates a new ingestion handler
func NewIngestHandler(ingestion interfaces.IngestionService, logger arbor.ILogger) *IngestHandler {
	return &IngestHandler{
		ingestion: ingestion,
		logger:    logger,
	}
}

// TriggerHandler handles POST /api/ingest. Fire-and-forget: the response
// reports only whether the managed service accepted the job.
func (h *IngestHandler) TriggerHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	status, err := h.ingestion.Trigger(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Ingestion trigger failed")
		WriteError(w, http.StatusBadGateway, "Failed to start ingestion job: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"job":     status,
	})
}

// StatusHandler handles GET /api/ingest/status
func (h *IngestHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status, err := h.ingestion.LastStatus(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to load ingestion status")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"job":     status,
	})
}
