package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"golang.org/x/time/rate"
)

// InvokeModelAPI is the subset of the Bedrock runtime client used by the
// generator
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockGenerator produces answers via the Bedrock InvokeModel API using
// the Nova message schema
type BedrockGenerator struct {
	client      InvokeModelAPI
	modelID     string
	maxTokens   int
	temperature float32
	limiter     *rate.Limiter
	logger      arbor.ILogger
}

// NewBedrockGenerator creates a generator for the configured Bedrock model
func NewBedrockGenerator(client InvokeModelAPI, config *common.Config, logger arbor.ILogger) *BedrockGenerator {
	return &BedrockGenerator{
		client:      client,
		modelID:     config.Bedrock.ModelID,
		maxTokens:   config.Bedrock.MaxTokens,
		temperature: config.Bedrock.Temperature,
		limiter:     newLimiter(config.Bedrock.RateLimit),
		logger:      logger,
	}
}

// Nova request/response message schema
type novaContent struct {
	Text string `json:"text"`
}

type novaMessage struct {
	Role    string        `json:"role"`
	Content []novaContent `json:"content"`
}

type novaInferenceConfig struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float32 `json:"temperature"`
}

type novaRequest struct {
	Messages        []novaMessage       `json:"messages"`
	InferenceConfig novaInferenceConfig `json:"inferenceConfig"`
}

type novaResponse struct {
	Output struct {
		Message struct {
			Content []novaContent `json:"content"`
		} `json:"message"`
	} `json:"output"`
	StopReason string `json:"stopReason"`
}

// Generate invokes the model with the fully assembled prompt and returns the
// generated text. Stateless per call.
func (g *BedrockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(novaRequest{
		Messages: []novaMessage{
			{Role: "user", Content: []novaContent{{Text: prompt}}},
		},
		InferenceConfig: novaInferenceConfig{
			MaxTokens:   g.maxTokens,
			Temperature: g.temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to build model request: %w", err)
	}

	output, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("model invocation failed: %w", err)
	}

	var response novaResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return "", fmt.Errorf("%w: %v", interfaces.ErrMalformedResponse, err)
	}

	text := ""
	for _, content := range response.Output.Message.Content {
		text += content.Text
	}
	if text == "" {
		return "", fmt.Errorf("%w: model response contained no output text", interfaces.ErrMalformedResponse)
	}

	g.logger.Debug().Str("model", g.modelID).Str("stop_reason", response.StopReason).Msg("Model invocation complete")

	return text, nil
}
