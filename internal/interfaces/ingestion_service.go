package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// IngestionService triggers the managed knowledge-base ingestion job. The
// job itself runs asynchronously inside the managed service; this interface
// only starts it and records the trigger outcome.
type IngestionService interface {
	// Trigger starts an ingestion job for the configured knowledge base
	// and data source. No polling and no retry: the returned status
	// reflects only whether the start call was accepted.
	Trigger(ctx context.Context) (*models.IngestionStatus, error)

	// LastStatus returns the most recent trigger outcome, or nil when no
	// trigger has been recorded
	LastStatus(ctx context.Context) (*models.IngestionStatus, error)
}
