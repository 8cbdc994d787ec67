package llm

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"golang.org/x/time/rate"
)

// NewGenerator builds the generation provider selected in config. Bedrock is
// the default; Claude and Gemini are alternate providers behind the same
// Generator contract. Constructed once at startup and shared across sessions.
func NewGenerator(ctx context.Context, config *common.Config, awsConfig awssdk.Config, logger arbor.ILogger) (interfaces.Generator, error) {
	switch config.LLM.Provider {
	case common.ProviderBedrock:
		return NewBedrockGenerator(bedrockruntime.NewFromConfig(awsConfig), config, logger), nil
	case common.ProviderClaude:
		return NewClaudeGenerator(config, logger)
	case common.ProviderGemini:
		return NewGeminiGenerator(ctx, config, logger)
	default:
		return nil, fmt.Errorf("unknown generation provider: %s", config.LLM.Provider)
	}
}

// newLimiter builds a rate limiter from a configured minimum interval.
// Throttling only, never retry: a failed call propagates immediately.
func newLimiter(interval string) *rate.Limiter {
	d, err := time.ParseDuration(interval)
	if err != nil || d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}
