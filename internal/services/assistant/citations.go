package assistant

import (
	"fmt"
	"strings"

	"github.com/ternarybob/respondeo/internal/models"
)

// NoCitationsFallback is returned when no passage carries usable source
// metadata.
const NoCitationsFallback = "No specific citations found."

const citationHeader = "**----------------------------------Retrieved References------------------------------**"

// Citations deduplicates passages on (document, page) in first-seen order
// and assigns contiguous 1-based sequence numbers. Passages missing either
// the document identifier or the page number are skipped.
func Citations(passages []models.Passage) []models.Citation {
	seen := make(map[string]bool)
	var citations []models.Citation

	for _, passage := range passages {
		if !passage.HasSourceMetadata() {
			continue
		}

		filename := sourceBasename(passage.DocumentID)
		key := fmt.Sprintf("%s-%d", filename, *passage.PageNumber)
		if seen[key] {
			continue
		}
		seen[key] = true

		citations = append(citations, models.Citation{
			SequenceNumber: len(citations) + 1,
			DocumentID:     filename,
			PageNumber:     *passage.PageNumber,
		})
	}

	return citations
}

// FormatCitations renders the citation block appended to each answer.
// Deterministic for a fixed passage order, and idempotent.
func FormatCitations(passages []models.Passage) string {
	citations := Citations(passages)
	if len(citations) == 0 {
		return NoCitationsFallback
	}

	entries := make([]string, 0, len(citations))
	for _, c := range citations {
		entries = append(entries, fmt.Sprintf(
			"**Reference %d:**  \n**Source Document:** %s  \n**Page Number:** %d",
			c.SequenceNumber, c.DocumentID, c.PageNumber))
	}

	return fmt.Sprintf("\n\n%s\n\n%s\n", citationHeader, strings.Join(entries, "\n\n"))
}

// sourceBasename keeps only the final path segment of the source identifier.
// Display transformation only; the full URI is not retained.
func sourceBasename(sourceURI string) string {
	parts := strings.Split(sourceURI, "/")
	return parts[len(parts)-1]
}
