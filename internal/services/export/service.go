package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Service renders session transcripts for download
type Service struct {
	logger arbor.ILogger
}

// NewService creates the export service
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// Markdown renders the transcript as a markdown document. Assistant turns
// already carry markdown (bold citation entries), so they pass through
// unmodified.
func (s *Service) Markdown(session *models.ChatSession) string {
	var b strings.Builder

	b.WriteString("# Guidelines Chat Transcript\n\n")
	b.WriteString(fmt.Sprintf("**Session:** %s  \n", session.ID))
	b.WriteString(fmt.Sprintf("**Started:** %s\n\n", session.CreatedAt.Format("2006-01-02 15:04:05")))
	b.WriteString("---\n\n")

	for _, turn := range session.Turns {
		switch turn.Role {
		case models.RoleUser:
			b.WriteString("**Question:**\n\n")
		default:
			b.WriteString("**Assistant:**\n\n")
		}
		b.WriteString(turn.Content)
		b.WriteString("\n\n---\n\n")
	}

	return b.String()
}

// HTML renders the transcript markdown to HTML
func (s *Service) HTML(session *models.ChatSession) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(s.Markdown(session)), &buf); err != nil {
		return nil, fmt.Errorf("failed to render transcript HTML: %w", err)
	}

	return buf.Bytes(), nil
}

// PDF renders the transcript markdown to a PDF byte slice
func (s *Service) PDF(session *models.ChatSession) ([]byte, error) {
	data, err := renderPDF(s.Markdown(session))
	if err != nil {
		s.logger.Error().Err(err).Str("session", session.ID).Msg("Failed to generate transcript PDF")
		return nil, err
	}

	s.logger.Debug().Int("pdf_size", len(data)).Str("session", session.ID).Msg("Transcript PDF generated")
	return data, nil
}
