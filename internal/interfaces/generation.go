package interfaces

import "context"

// Generator produces free-text output from a hosted language model given a
// fully assembled prompt. Implementations are stateless per call.
type Generator interface {
	// Generate returns the model's answer text for the prompt. Failures
	// propagate wrapped in ErrGeneration; a successful call with no usable
	// text wraps ErrMalformedResponse.
	Generate(ctx context.Context, prompt string) (string, error)
}

// CombinedGenerator performs retrieval and generation in a single managed
// call: the external service retrieves passages server-side, fills a
// positional prompt template and returns only the final answer text. The
// passages the model saw are not exposed, so citations require a separate
// retrieval call.
type CombinedGenerator interface {
	// RetrieveAndGenerate returns the answer text for a raw question
	RetrieveAndGenerate(ctx context.Context, question string) (string, error)
}
