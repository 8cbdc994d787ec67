package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// mockExportService implements interfaces.ExportService for testing
type mockExportService struct{}

func (m *mockExportService) Markdown(session *models.ChatSession) string {
	return "# Transcript\n"
}

func (m *mockExportService) HTML(session *models.ChatSession) ([]byte, error) {
	return []byte("<h1>Transcript</h1>"), nil
}

func (m *mockExportService) PDF(session *models.ChatSession) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

func TestStartHandler(t *testing.T) {
	service := &mockSessionService{
		startFunc: func(ctx context.Context) (*models.ChatSession, error) {
			return activeSession("new-session",
				models.Turn{Role: models.RoleAssistant, Content: models.WelcomeMessage},
			), nil
		},
	}
	handler := NewSessionHandler(service, &mockExportService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/session/start", nil)
	rec := httptest.NewRecorder()
	handler.StartHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), models.WelcomeMessage) {
		t.Errorf("Expected welcome turn in response: %s", rec.Body.String())
	}
}

func TestSessionRoutesGet(t *testing.T) {
	service := &mockSessionService{
		getFunc: func(ctx context.Context, sessionID string) (*models.ChatSession, error) {
			if sessionID != "s1" {
				return nil, interfaces.ErrSessionNotFound
			}
			return activeSession("s1"), nil
		},
	}
	handler := NewSessionHandler(service, &mockExportService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/session/s1", nil)
	rec := httptest.NewRecorder()
	handler.SessionRoutes(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for existing session, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/session/missing", nil)
	rec = httptest.NewRecorder()
	handler.SessionRoutes(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", rec.Code)
	}
}

func TestSessionRoutesExit(t *testing.T) {
	ended := ""
	service := &mockSessionService{
		endFunc: func(ctx context.Context, sessionID string) error {
			ended = sessionID
			return nil
		},
	}
	handler := NewSessionHandler(service, &mockExportService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/session/s1/exit", nil)
	rec := httptest.NewRecorder()
	handler.SessionRoutes(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if ended != "s1" {
		t.Errorf("Expected End called with s1, got %q", ended)
	}
}

func TestSessionRoutesExport(t *testing.T) {
	service := &mockSessionService{
		getFunc: func(ctx context.Context, sessionID string) (*models.ChatSession, error) {
			return activeSession(sessionID), nil
		},
	}
	handler := NewSessionHandler(service, &mockExportService{}, arbor.NewLogger())

	tests := []struct {
		format      string
		contentType string
	}{
		{"markdown", "text/markdown; charset=utf-8"},
		{"html", "text/html; charset=utf-8"},
		{"pdf", "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/session/s1/export?format="+tt.format, nil)
			rec := httptest.NewRecorder()
			handler.SessionRoutes(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Expected content type %q, got %q", tt.contentType, got)
			}
		})
	}

	// Unknown format
	req := httptest.NewRequest(http.MethodGet, "/api/session/s1/export?format=docx", nil)
	rec := httptest.NewRecorder()
	handler.SessionRoutes(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unsupported format, got %d", rec.Code)
	}
}
