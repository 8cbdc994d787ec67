package models

// Passage represents a single passage retrieved from the knowledge base for
// one question cycle. Passages are transient: they live for the duration of a
// request and are never persisted.
type Passage struct {
	// Text is the passage content as returned by the retrieval service
	Text string `json:"text"`

	// DocumentID is the source document identifier (typically an S3 URI)
	DocumentID string `json:"document_id"`

	// PageNumber is the page within the source document, nil when the
	// retrieval metadata did not include one
	PageNumber *int `json:"page_number,omitempty"`
}

// HasSourceMetadata reports whether the passage carries enough metadata to be
// cited. Passages without metadata still contribute to the prompt context but
// are excluded from citation generation.
func (p *Passage) HasSourceMetadata() bool {
	return p.DocumentID != "" && p.PageNumber != nil
}

// Citation is a deduplicated reference derived from retrieved passages.
// Within one result set no two citations share (DocumentID, PageNumber).
type Citation struct {
	// SequenceNumber is 1-based, assigned in first-seen passage order
	SequenceNumber int `json:"sequence_number"`

	// DocumentID is the source document basename (final path segment)
	DocumentID string `json:"document_id"`

	PageNumber int `json:"page_number"`
}
