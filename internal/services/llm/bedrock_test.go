package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	agenttypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

type fakeInvokeAPI struct {
	body  []byte
	err   error
	input *bedrockruntime.InvokeModelInput
}

func (f *fakeInvokeAPI) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func generatorConfig() *common.Config {
	config := common.NewDefaultConfig()
	config.Bedrock.RateLimit = "0s" // No throttling in tests
	return config
}

func TestBedrockGenerate(t *testing.T) {
	responseBody, _ := json.Marshal(map[string]interface{}{
		"output": map[string]interface{}{
			"message": map[string]interface{}{
				"content": []map[string]string{{"text": "Grounded answer."}},
			},
		},
		"stopReason": "end_turn",
	})
	api := &fakeInvokeAPI{body: responseBody}

	generator := NewBedrockGenerator(api, generatorConfig(), arbor.NewLogger())

	text, err := generator.Generate(context.Background(), "assembled prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Grounded answer." {
		t.Errorf("Unexpected answer: %s", text)
	}

	if api.input == nil || *api.input.ModelId != "amazon.nova-micro-v1:0" {
		t.Errorf("Expected configured model id in request")
	}

	var request novaRequest
	if err := json.Unmarshal(api.input.Body, &request); err != nil {
		t.Fatalf("Request body is not valid JSON: %v", err)
	}
	if len(request.Messages) != 1 || request.Messages[0].Role != "user" {
		t.Errorf("Expected a single user message, got %+v", request.Messages)
	}
	if !strings.Contains(request.Messages[0].Content[0].Text, "assembled prompt") {
		t.Errorf("Prompt missing from request body")
	}
}

func TestBedrockGenerateFailure(t *testing.T) {
	api := &fakeInvokeAPI{err: errors.New("ThrottlingException")}
	generator := NewBedrockGenerator(api, generatorConfig(), arbor.NewLogger())

	if _, err := generator.Generate(context.Background(), "p"); err == nil {
		t.Error("Expected error from failed invocation")
	}
}

func TestBedrockGenerateMalformedResponse(t *testing.T) {
	api := &fakeInvokeAPI{body: []byte(`{"output":{"message":{"content":[]}}}`)}
	generator := NewBedrockGenerator(api, generatorConfig(), arbor.NewLogger())

	_, err := generator.Generate(context.Background(), "p")
	if !errors.Is(err, interfaces.ErrMalformedResponse) {
		t.Errorf("Expected malformed response error, got %v", err)
	}
}

type fakeRAGAPI struct {
	output *bedrockagentruntime.RetrieveAndGenerateOutput
	err    error
	input  *bedrockagentruntime.RetrieveAndGenerateInput
}

func (f *fakeRAGAPI) RetrieveAndGenerate(ctx context.Context, params *bedrockagentruntime.RetrieveAndGenerateInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error) {
	f.input = params
	return f.output, f.err
}

func combinedConfig() *common.Config {
	config := generatorConfig()
	config.KnowledgeBase.ID = "KB12345"
	config.Bedrock.Mode = common.ModeCombined
	config.Bedrock.ModelARN = "arn:aws:bedrock:us-east-1::foundation-model/amazon.nova-micro-v1:0"
	return config
}

func TestCombinedRetrieveAndGenerate(t *testing.T) {
	api := &fakeRAGAPI{
		output: &bedrockagentruntime.RetrieveAndGenerateOutput{
			Output: &agenttypes.RetrieveAndGenerateOutput{Text: aws.String("Combined answer.")},
		},
	}

	combined := NewBedrockCombined(api, combinedConfig(), arbor.NewLogger())

	text, err := combined.RetrieveAndGenerate(context.Background(), "the question")
	if err != nil {
		t.Fatalf("RetrieveAndGenerate failed: %v", err)
	}
	if text != "Combined answer." {
		t.Errorf("Unexpected answer: %s", text)
	}

	kbConfig := api.input.RetrieveAndGenerateConfiguration.KnowledgeBaseConfiguration
	if *kbConfig.KnowledgeBaseId != "KB12345" {
		t.Errorf("Request missing knowledge base id")
	}
	template := *kbConfig.GenerationConfiguration.PromptTemplate.TextPromptTemplate
	if !strings.Contains(template, "$search_results$") || !strings.Contains(template, "$input_text$") {
		t.Errorf("Request template missing positional placeholders")
	}
	if *api.input.Input.Text != "the question" {
		t.Errorf("Request missing raw question text")
	}
}

func TestCombinedMalformedResponse(t *testing.T) {
	api := &fakeRAGAPI{output: &bedrockagentruntime.RetrieveAndGenerateOutput{}}
	combined := NewBedrockCombined(api, combinedConfig(), arbor.NewLogger())

	_, err := combined.RetrieveAndGenerate(context.Background(), "q")
	if !errors.Is(err, interfaces.ErrMalformedResponse) {
		t.Errorf("Expected malformed response error, got %v", err)
	}
}
