package llm

import (
	"context"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
)

func TestNewGeneratorUnknownProvider(t *testing.T) {
	config := common.NewDefaultConfig()
	config.LLM.Provider = "gpt"

	_, err := NewGenerator(context.Background(), config, awssdk.Config{}, arbor.NewLogger())
	if err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestNewGeneratorClaudeRequiresAPIKey(t *testing.T) {
	config := common.NewDefaultConfig()
	config.LLM.Provider = common.ProviderClaude
	config.Claude.APIKey = ""

	_, err := NewGenerator(context.Background(), config, awssdk.Config{}, arbor.NewLogger())
	if err == nil {
		t.Fatal("Expected error when Claude API key is missing")
	}
}

func TestNewLimiter(t *testing.T) {
	// Valid interval throttles
	limiter := newLimiter("100ms")
	if limiter.Limit() != 10 {
		t.Errorf("Expected 10 calls/sec for 100ms interval, got %v", limiter.Limit())
	}

	// Invalid or zero intervals disable throttling
	for _, interval := range []string{"", "0s", "not-a-duration", "-1s"} {
		limiter := newLimiter(interval)
		if !limiter.Allow() {
			t.Errorf("Limiter for %q should not block", interval)
		}
	}
}

func TestLimiterThrottlesSecondCall(t *testing.T) {
	limiter := newLimiter("50ms")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("First wait failed: %v", err)
	}
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("Second wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("Second call was not throttled, elapsed %v", elapsed)
	}
}
