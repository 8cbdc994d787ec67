package assistant

import (
	"strings"
	"testing"

	"github.com/ternarybob/respondeo/internal/models"
)

func TestBuildPromptSubstitutesOnce(t *testing.T) {
	question := "What are the three primary medications for Opioid Use Disorder?"
	context := "Methadone, buprenorphine, and naltrexone are the primary medications."

	prompt := BuildPrompt(question, context)

	if strings.Count(prompt, question) != 1 {
		t.Errorf("Expected question to appear exactly once")
	}
	if strings.Count(prompt, context) != 1 {
		t.Errorf("Expected context to appear exactly once")
	}
	if strings.Contains(prompt, "{context}") || strings.Contains(prompt, "{question}") {
		t.Errorf("Residual placeholder in prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "<question>\n"+question+"\n</question>") {
		t.Errorf("Question not enclosed in question tags:\n%s", prompt)
	}
	if !strings.Contains(prompt, "ASAM National Practice Guideline") {
		t.Errorf("Persona instruction missing from prompt")
	}
	if !strings.HasSuffix(prompt, "Assistant:") {
		t.Errorf("Prompt must end with the Assistant marker")
	}
}

func TestBuildPromptPlainTextInsertion(t *testing.T) {
	// Placeholder-looking text in the question must not trigger nested
	// substitution
	question := "Does {context} matter here?"
	prompt := BuildPrompt(question, "Some context.")

	if !strings.Contains(prompt, question) {
		t.Errorf("Question inserted with modification:\n%s", prompt)
	}
	if strings.Count(prompt, "Some context.") != 1 {
		t.Errorf("Context substitution affected by question content")
	}
}

func TestBuildContext(t *testing.T) {
	passages := []models.Passage{
		{Text: "First passage."},
		{Text: "Second passage.", DocumentID: "s3://b/doc.pdf"},
		{Text: "Third passage."},
	}

	context := BuildContext(passages)
	expected := "First passage.\n\nSecond passage.\n\nThird passage."
	if context != expected {
		t.Errorf("Expected %q, got %q", expected, context)
	}

	if BuildContext(nil) != "" {
		t.Errorf("Expected empty context for no passages")
	}
}

func TestCombinedPromptTemplateMarkers(t *testing.T) {
	if strings.Count(CombinedPromptTemplate, "$search_results$") != 1 {
		t.Errorf("Expected exactly one $search_results$ marker")
	}
	if strings.Count(CombinedPromptTemplate, "$input_text$") != 1 {
		t.Errorf("Expected exactly one $input_text$ marker")
	}
	if strings.Contains(CombinedPromptTemplate, "{context}") || strings.Contains(CombinedPromptTemplate, "{question}") {
		t.Errorf("Named placeholders must not appear in the combined template")
	}
}
