package llm

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/services/assistant"
	"golang.org/x/time/rate"
)

// RetrieveAndGenerateAPI is the subset of the Bedrock agent runtime client
// used by the combined generator
type RetrieveAndGenerateAPI interface {
	RetrieveAndGenerate(ctx context.Context, params *bedrockagentruntime.RetrieveAndGenerateInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error)
}

// BedrockCombined performs retrieval and generation in a single managed call.
// The service substitutes the template placeholders server-side and returns
// only the final answer text; the passages it used are not exposed.
type BedrockCombined struct {
	client          RetrieveAndGenerateAPI
	knowledgeBaseID string
	modelARN        string
	numberOfResults int32
	limiter         *rate.Limiter
	logger          arbor.ILogger
}

// NewBedrockCombined creates the combined retrieve-and-generate client
func NewBedrockCombined(client RetrieveAndGenerateAPI, config *common.Config, logger arbor.ILogger) *BedrockCombined {
	return &BedrockCombined{
		client:          client,
		knowledgeBaseID: config.KnowledgeBase.ID,
		modelARN:        config.Bedrock.ModelARN,
		numberOfResults: int32(config.KnowledgeBase.NumberOfResults),
		limiter:         newLimiter(config.Bedrock.RateLimit),
		logger:          logger,
	}
}

// RetrieveAndGenerate sends the raw question with the positional prompt
// template and returns the generated answer text
func (c *BedrockCombined) RetrieveAndGenerate(ctx context.Context, question string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	output, err := c.client.RetrieveAndGenerate(ctx, &bedrockagentruntime.RetrieveAndGenerateInput{
		Input: &types.RetrieveAndGenerateInput{
			Text: aws.String(question),
		},
		RetrieveAndGenerateConfiguration: &types.RetrieveAndGenerateConfiguration{
			Type: types.RetrieveAndGenerateTypeKnowledgeBase,
			KnowledgeBaseConfiguration: &types.KnowledgeBaseRetrieveAndGenerateConfiguration{
				KnowledgeBaseId: aws.String(c.knowledgeBaseID),
				ModelArn:        aws.String(c.modelARN),
				RetrievalConfiguration: &types.KnowledgeBaseRetrievalConfiguration{
					VectorSearchConfiguration: &types.KnowledgeBaseVectorSearchConfiguration{
						NumberOfResults: aws.Int32(c.numberOfResults),
					},
				},
				GenerationConfiguration: &types.GenerationConfiguration{
					PromptTemplate: &types.PromptTemplate{
						TextPromptTemplate: aws.String(assistant.CombinedPromptTemplate),
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("retrieve-and-generate call failed: %w", err)
	}

	if output.Output == nil || output.Output.Text == nil || *output.Output.Text == "" {
		return "", fmt.Errorf("%w: retrieve-and-generate response contained no output text", interfaces.ErrMalformedResponse)
	}

	return *output.Output.Text, nil
}
