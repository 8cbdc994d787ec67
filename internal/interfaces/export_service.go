package interfaces

import "github.com/ternarybob/respondeo/internal/models"

// ExportService renders a session transcript for download
type ExportService interface {
	// Markdown renders the transcript as a markdown document
	Markdown(session *models.ChatSession) string

	// HTML renders the transcript markdown to HTML
	HTML(session *models.ChatSession) ([]byte, error)

	// PDF renders the transcript markdown to a PDF byte slice
	PDF(session *models.ChatSession) ([]byte, error)
}
