package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

type fakeRetriever struct {
	passages []models.Passage
	err      error
	queries  []string
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string) ([]models.Passage, error) {
	f.queries = append(f.queries, query)
	return f.passages, f.err
}

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

type fakeCombined struct {
	text      string
	err       error
	questions []string
}

func (f *fakeCombined) RetrieveAndGenerate(ctx context.Context, question string) (string, error) {
	f.questions = append(f.questions, question)
	return f.text, f.err
}

func orchestratedConfig() *common.Config {
	config := common.NewDefaultConfig()
	config.Bedrock.Mode = common.ModeOrchestrated
	return config
}

func TestAnswerOrchestrated(t *testing.T) {
	retriever := &fakeRetriever{passages: []models.Passage{
		{Text: "Methadone is a full opioid agonist.", DocumentID: "s3://b/asam-npg.pdf", PageNumber: page(12)},
		{Text: "Buprenorphine is a partial agonist.", DocumentID: "s3://b/asam-npg.pdf", PageNumber: page(14)},
	}}
	generator := &fakeGenerator{text: "The guideline names methadone and buprenorphine."}

	service, err := NewService(orchestratedConfig(), retriever, generator, nil, arbor.NewLogger())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	answer, err := service.Answer(context.Background(), "Which medications are recommended?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if answer.Text != "The guideline names methadone and buprenorphine." {
		t.Errorf("Unexpected answer text: %s", answer.Text)
	}
	if len(answer.Citations) != 2 {
		t.Errorf("Expected 2 citations, got %d", len(answer.Citations))
	}
	if !strings.HasPrefix(answer.Combined(), answer.Text) {
		t.Errorf("Combined content must start with the answer text")
	}
	if !strings.Contains(answer.Combined(), "Retrieved References") {
		t.Errorf("Combined content must include the citation block")
	}

	// The generator received a prompt built from the retrieved context
	if len(generator.prompts) != 1 {
		t.Fatalf("Expected one generation call, got %d", len(generator.prompts))
	}
	if !strings.Contains(generator.prompts[0], "Methadone is a full opioid agonist.") {
		t.Errorf("Prompt missing retrieved context")
	}
	if len(retriever.queries) != 1 {
		t.Errorf("Orchestrated mode must retrieve exactly once, got %d calls", len(retriever.queries))
	}
}

func TestAnswerRetrievalFailure(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("throttled")}
	generator := &fakeGenerator{text: "unused"}

	service, err := NewService(orchestratedConfig(), retriever, generator, nil, arbor.NewLogger())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	_, err = service.Answer(context.Background(), "any question")
	if !errors.Is(err, interfaces.ErrRetrieval) {
		t.Errorf("Expected retrieval stage error, got %v", err)
	}
	if errors.Is(err, interfaces.ErrGeneration) {
		t.Errorf("Retrieval failure must not report as generation failure")
	}
	if len(generator.prompts) != 0 {
		t.Errorf("Generator must not run after retrieval failure")
	}
}

func TestAnswerGenerationFailure(t *testing.T) {
	retriever := &fakeRetriever{passages: []models.Passage{{Text: "ctx"}}}
	generator := &fakeGenerator{err: errors.New("model quota exceeded")}

	service, err := NewService(orchestratedConfig(), retriever, generator, nil, arbor.NewLogger())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	_, err = service.Answer(context.Background(), "any question")
	if !errors.Is(err, interfaces.ErrGeneration) {
		t.Errorf("Expected generation stage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "model quota exceeded") {
		t.Errorf("Expected failure description preserved, got %v", err)
	}
}

func TestAnswerCombinedMode(t *testing.T) {
	retriever := &fakeRetriever{passages: []models.Passage{
		{Text: "A", DocumentID: "s3://b/doc.pdf", PageNumber: page(5)},
	}}
	combined := &fakeCombined{text: "Combined answer."}

	config := common.NewDefaultConfig()
	config.Bedrock.Mode = common.ModeCombined

	service, err := NewService(config, retriever, nil, combined, arbor.NewLogger())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	answer, err := service.Answer(context.Background(), "a question")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if answer.Text != "Combined answer." {
		t.Errorf("Unexpected answer text: %s", answer.Text)
	}
	// Citations come from the independent second retrieval
	if len(retriever.queries) != 1 {
		t.Errorf("Expected one citation retrieval, got %d", len(retriever.queries))
	}
	if len(answer.Citations) != 1 || answer.Citations[0].DocumentID != "doc.pdf" {
		t.Errorf("Unexpected citations: %+v", answer.Citations)
	}
}

func TestAnswerRejectsEmptyQuestion(t *testing.T) {
	service, err := NewService(orchestratedConfig(), &fakeRetriever{}, &fakeGenerator{}, nil, arbor.NewLogger())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	if _, err := service.Answer(context.Background(), "   "); err == nil {
		t.Error("Expected error for blank question")
	}
}

func TestNewServiceValidatesMode(t *testing.T) {
	config := orchestratedConfig()
	if _, err := NewService(config, &fakeRetriever{}, nil, nil, arbor.NewLogger()); err == nil {
		t.Error("Expected error when orchestrated mode has no generator")
	}

	config.Bedrock.Mode = common.ModeCombined
	if _, err := NewService(config, &fakeRetriever{}, nil, nil, arbor.NewLogger()); err == nil {
		t.Error("Expected error when combined mode has no combined generator")
	}
}
