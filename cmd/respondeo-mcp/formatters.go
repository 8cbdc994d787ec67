package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/respondeo/internal/models"
)

// formatPassages formats retrieved passages as markdown
func formatPassages(query string, passages []models.Passage) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Passages for \"%s\" (%d results)\n\n", query, len(passages)))

	if len(passages) == 0 {
		sb.WriteString("No passages found.\n")
		return sb.String()
	}

	for i, passage := range passages {
		sb.WriteString(fmt.Sprintf("### %d. %s\n", i+1, passage.DocumentID))
		if passage.PageNumber != nil {
			sb.WriteString(fmt.Sprintf("**Page:** %d\n", *passage.PageNumber))
		}
		sb.WriteString("\n")
		sb.WriteString(passage.Text)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}
