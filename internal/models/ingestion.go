package models

import "time"

// Ingestion trigger outcomes
const (
	IngestionStatusStarted = "started"
	IngestionStatusFailed  = "failed"
)

// IngestionStatus records the outcome of the most recent ingestion trigger.
// The trigger is fire-and-forget: the managed service indexes documents
// asynchronously and no polling is performed here.
type IngestionStatus struct {
	JobID       string    `json:"job_id,omitempty"`
	Status      string    `json:"status"`
	TriggeredAt time.Time `json:"triggered_at"`
	Error       string    `json:"error,omitempty"`
}
