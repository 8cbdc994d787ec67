package retrieval

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/models"
)

// Metadata keys attached by the knowledge base to each retrieved chunk
const (
	metadataSourceURI  = "x-amz-bedrock-kb-source-uri"
	metadataPageNumber = "x-amz-bedrock-kb-document-page-number"
)

// RetrieveAPI is the subset of the Bedrock agent runtime client used by the
// retriever
type RetrieveAPI interface {
	Retrieve(ctx context.Context, params *bedrockagentruntime.RetrieveInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveOutput, error)
}

// BedrockRetriever queries a Bedrock knowledge base for passages relevant to
// a question
type BedrockRetriever struct {
	client          RetrieveAPI
	knowledgeBaseID string
	numberOfResults int32
	logger          arbor.ILogger
}

// NewBedrockRetriever creates a retriever over the configured knowledge base
func NewBedrockRetriever(client RetrieveAPI, config *common.Config, logger arbor.ILogger) *BedrockRetriever {
	return &BedrockRetriever{
		client:          client,
		knowledgeBaseID: config.KnowledgeBase.ID,
		numberOfResults: int32(config.KnowledgeBase.NumberOfResults),
		logger:          logger,
	}
}

// Retrieve returns passages in relevance-ranked order. Order is preserved
// downstream: it decides citation numbering and which context the model sees
// first. A failed call propagates as an error; an empty result set is never
// silently substituted.
func (r *BedrockRetriever) Retrieve(ctx context.Context, query string) ([]models.Passage, error) {
	output, err := r.client.Retrieve(ctx, &bedrockagentruntime.RetrieveInput{
		KnowledgeBaseId: aws.String(r.knowledgeBaseID),
		RetrievalQuery: &types.KnowledgeBaseQuery{
			Text: aws.String(query),
		},
		RetrievalConfiguration: &types.KnowledgeBaseRetrievalConfiguration{
			VectorSearchConfiguration: &types.KnowledgeBaseVectorSearchConfiguration{
				NumberOfResults: aws.Int32(r.numberOfResults),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("knowledge base retrieval failed: %w", err)
	}

	passages := make([]models.Passage, 0, len(output.RetrievalResults))
	for _, result := range output.RetrievalResults {
		passage := models.Passage{}
		if result.Content != nil && result.Content.Text != nil {
			passage.Text = *result.Content.Text
		}

		passage.DocumentID = metadataString(result.Metadata, metadataSourceURI)
		if passage.DocumentID == "" {
			passage.DocumentID = s3URI(result.Location)
		}
		passage.PageNumber = metadataInt(result.Metadata, metadataPageNumber)

		passages = append(passages, passage)
	}

	r.logger.Debug().
		Str("knowledge_base", r.knowledgeBaseID).
		Int("passages", len(passages)).
		Msg("Knowledge base retrieval complete")

	return passages, nil
}

func s3URI(location *types.RetrievalResultLocation) string {
	if location == nil || location.S3Location == nil || location.S3Location.Uri == nil {
		return ""
	}
	return *location.S3Location.Uri
}

// metadataString unmarshals a string-valued metadata document
func metadataString(metadata map[string]document.Interface, key string) string {
	doc, ok := metadata[key]
	if !ok {
		return ""
	}

	var value string
	if err := doc.UnmarshalSmithyDocument(&value); err != nil {
		return ""
	}
	return value
}

// metadataInt unmarshals a numeric metadata document. Page numbers arrive as
// numbers in most data sources but as strings in some parsers, so both are
// accepted.
func metadataInt(metadata map[string]document.Interface, key string) *int {
	doc, ok := metadata[key]
	if !ok {
		return nil
	}

	var number float64
	if err := doc.UnmarshalSmithyDocument(&number); err == nil {
		value := int(number)
		return &value
	}

	var text string
	if err := doc.UnmarshalSmithyDocument(&text); err == nil {
		if parsed, err := strconv.Atoi(text); err == nil {
			return &parsed
		}
	}

	return nil
}
