package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// Service composes retrieval, prompt assembly, generation and citation
// formatting into one answer pipeline. Exactly one integration mode is
// active per deployment.
type Service struct {
	mode      string
	retriever interfaces.Retriever
	generator interfaces.Generator
	combined  interfaces.CombinedGenerator
	logger    arbor.ILogger
}

// NewService creates the assistant service for the configured mode.
// In orchestrated mode the generator is required; in combined mode the
// combined generator is required and the retriever only feeds citations.
func NewService(config *common.Config, retriever interfaces.Retriever, generator interfaces.Generator, combined interfaces.CombinedGenerator, logger arbor.ILogger) (*Service, error) {
	switch config.Bedrock.Mode {
	case common.ModeOrchestrated:
		if generator == nil {
			return nil, fmt.Errorf("orchestrated mode requires a generator")
		}
	case common.ModeCombined:
		if combined == nil {
			return nil, fmt.Errorf("combined mode requires a combined generator")
		}
	default:
		return nil, fmt.Errorf("unknown mode: %s", config.Bedrock.Mode)
	}

	if retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}

	return &Service{
		mode:      config.Bedrock.Mode,
		retriever: retriever,
		generator: generator,
		combined:  combined,
		logger:    logger,
	}, nil
}

// Answer runs one question cycle and returns the generated text with its
// citation block.
func (s *Service) Answer(ctx context.Context, question string) (*interfaces.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question must not be empty")
	}

	if s.mode == common.ModeCombined {
		return s.answerCombined(ctx, question)
	}
	return s.answerOrchestrated(ctx, question)
}

// answerOrchestrated calls retrieval and generation as separate steps. The
// passages the model sees are exactly the passages cited.
func (s *Service) answerOrchestrated(ctx context.Context, question string) (*interfaces.Answer, error) {
	passages, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrRetrieval, err)
	}

	s.logger.Debug().Int("passages", len(passages)).Msg("Retrieved context for question")

	prompt := BuildPrompt(question, BuildContext(passages))
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrGeneration, err)
	}

	return &interfaces.Answer{
		Text:          text,
		CitationBlock: FormatCitations(passages),
		Citations:     Citations(passages),
		Passages:      passages,
	}, nil
}

// answerCombined delegates retrieval and generation to a single managed
// call, then issues an independent retrieval for citations. The cited
// passages can differ from the context the model saw; that drift is
// inherent to this mode and accepted in exchange for fewer integration
// points.
func (s *Service) answerCombined(ctx context.Context, question string) (*interfaces.Answer, error) {
	text, err := s.combined.RetrieveAndGenerate(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrGeneration, err)
	}

	passages, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", interfaces.ErrRetrieval, err)
	}

	return &interfaces.Answer{
		Text:          text,
		CitationBlock: FormatCitations(passages),
		Citations:     Citations(passages),
		Passages:      passages,
	}, nil
}
