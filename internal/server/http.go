package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *WeftServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tui/workflows", s.handleListWorkflows)
	mux.HandleFunc("GET /api/tui/workflows/{id}", s.handleGetWorkflow)
	mux.HandleFunc("POST /api/tui/workflows", s.handleCreateWorkflow)
	mux.HandleFunc("PUT /api/tui/workflows/{id}", s.handleSaveWorkflow)
	mux.HandleFunc("DELETE /api/tui/workflows/{id}", s.handleDeleteWorkflow)
	mux.HandleFunc("POST /v1/workflows/{id}/nodes", s.handleAddNode)
	mux.HandleFunc("DELETE /v1/workflows/{id}/nodes/{node_id}", s.handleRemoveNode)
	mux.HandleFunc("POST /v1/workflows/{id}/edges", s.handleAddEdge)
	mux.HandleFunc("DELETE /v1/workflows/{id}/edges/{edge_id}", s.handleRemoveEdge)
	mux.HandleFunc("POST /v1/workflows/{id}/edges/{edge_id}/select", s.handleSelectEdge)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *WeftServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
