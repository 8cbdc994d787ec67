package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"golang.org/x/time/rate"
)

// ClaudeGenerator produces answers via the Anthropic API. Alternate provider
// for deployments without Bedrock model access.
type ClaudeGenerator struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float32
	limiter     *rate.Limiter
	logger      arbor.ILogger
}

// NewClaudeGenerator creates a Claude-backed generator
func NewClaudeGenerator(config *common.Config, logger arbor.ILogger) (*ClaudeGenerator, error) {
	if config.Claude.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required for the claude provider (set ANTHROPIC_API_KEY or claude.api_key)")
	}

	return &ClaudeGenerator{
		client:      anthropic.NewClient(option.WithAPIKey(config.Claude.APIKey)),
		model:       config.Claude.Model,
		maxTokens:   config.Claude.MaxTokens,
		temperature: config.Claude.Temperature,
		limiter:     newLimiter(config.Claude.RateLimit),
		logger:      logger,
	}, nil
}

// Generate sends the assembled prompt as a single user message
func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if g.temperature > 0 {
		params.Temperature = anthropic.Float(float64(g.temperature))
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from Claude API")
	}

	return response.String(), nil
}
