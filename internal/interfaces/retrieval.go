package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// Retriever queries the managed knowledge base for passages relevant to a
// question. Results are returned in relevance-ranked order as provided by the
// external service; that order is preserved downstream because it determines
// citation numbering and which context the model sees first.
type Retriever interface {
	// Retrieve returns the top passages for a non-empty query. The number
	// of passages is fixed by deployment configuration. A transport, auth,
	// or service error propagates wrapped in ErrRetrieval; implementations
	// never return an empty result set in place of an error.
	Retrieve(ctx context.Context, query string) ([]models.Passage, error)
}
