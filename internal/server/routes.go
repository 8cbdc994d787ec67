package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI Page routes (HTML templates)
	mux.HandleFunc("/", s.app.PageHandler.ServePage("index.html", "chat"))

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// WebSocket route (cycle progress events)
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Session lifecycle
	mux.HandleFunc("/api/session/start", s.app.SessionHandler.StartHandler) // POST - start chat
	mux.HandleFunc("/api/session/", s.app.SessionHandler.SessionRoutes)     // GET /{id}, POST /{id}/exit, GET /{id}/export

	// API routes - Chat (RAG question cycle)
	mux.HandleFunc("/api/chat", s.app.ChatHandler.AskHandler)

	// API routes - Knowledge base ingestion
	mux.HandleFunc("/api/ingest", s.app.IngestHandler.TriggerHandler)      // POST - start ingestion job
	mux.HandleFunc("/api/ingest/status", s.app.IngestHandler.StatusHandler) // GET - last trigger outcome

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/status", s.app.APIHandler.StatusHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
