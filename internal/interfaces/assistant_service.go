package interfaces

import (
	"context"

	"github.com/ternarybob/respondeo/internal/models"
)

// Answer is the result of one question cycle through the RAG pipeline.
type Answer struct {
	// Text is the generated answer body
	Text string `json:"text"`

	// CitationBlock is the rendered citation section appended to the
	// answer in the transcript
	CitationBlock string `json:"citation_block"`

	// Citations lists the deduplicated references backing the answer
	Citations []models.Citation `json:"citations"`

	// Passages are the retrieved passages used to build the citations. In
	// combined mode these come from a second independent retrieval call
	// and may differ slightly from the context the model actually saw.
	Passages []models.Passage `json:"-"`
}

// Combined returns the transcript content for the answer: generated text
// concatenated with the citation block.
func (a *Answer) Combined() string {
	return a.Text + a.CitationBlock
}

// AssistantService answers a question from the guidelines knowledge base,
// grounding the response in retrieved passages.
type AssistantService interface {
	// Answer runs one retrieval-augmented question cycle. Failures carry
	// the stage sentinel (ErrRetrieval, ErrGeneration,
	// ErrMalformedResponse) for error reporting at the session boundary.
	Answer(ctx context.Context, question string) (*Answer, error)
}
