package assistant

import (
	"strings"

	"github.com/ternarybob/respondeo/internal/models"
)

// promptTemplate constrains the model to the retrieved guideline context.
// The persona, exclusivity instruction, "don't know" fallback and
// specificity instruction are load-bearing: changing them changes the
// grounding behaviour of every answer.
const promptTemplate = `
Human: You are an internal AI system that assists with standard operating procedures (SOPs) for opioid treatment in the field of psychiatry. Your answers must be based exclusively on the provided ASAM National Practice Guideline for the Treatment of Opioid Use Disorder documents.
Use the following pieces of information to provide a concise answer to the question enclosed in <question> tags. 
If you don't know the answer, just say that you don't know, don't try to make up an answer.
<context>
{context}
</context>

<question>
{question}
</question>

The response should be specific and use clinical guidance, statistics, or numbers when possible, as found in the guidelines.

Assistant:`

// CombinedPromptTemplate is the same template expressed with the positional
// placeholder markers the managed retrieve-and-generate call expects. The
// service substitutes $search_results$ and $input_text$ server-side.
const CombinedPromptTemplate = `
Human: You are an internal AI system that assists with standard operating procedures (SOPs) for opioid treatment in the field of psychiatry. Your answers must be based exclusively on the provided ASAM National Practice Guideline for the Treatment of Opioid Use Disorder documents.
Use the following pieces of information to provide a concise answer to the question enclosed in <question> tags. 
If you don't know the answer, just say that you don't know, don't try to make up an answer.
<context>
$search_results$
</context>

<question>
$input_text$
</question>

The response should be specific and use clinical guidance, statistics, or numbers when possible, as found in the guidelines.

Assistant:`

// BuildPrompt substitutes the context and question into the template.
// Each placeholder is replaced exactly once; the question is inserted as
// plain text, never interpreted.
func BuildPrompt(question, context string) string {
	prompt := strings.Replace(promptTemplate, "{context}", context, 1)
	prompt = strings.Replace(prompt, "{question}", question, 1)
	return prompt
}

// BuildContext concatenates passage text in retrieval order with a blank
// line between passages. Passages without source metadata still contribute
// context; they are only excluded from citations.
func BuildContext(passages []models.Passage) string {
	parts := make([]string, 0, len(passages))
	for _, passage := range passages {
		parts = append(parts, passage.Text)
	}
	return strings.Join(parts, "\n\n")
}
