package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alfredjeanlab/weft/internal/events"
	"github.com/alfredjeanlab/weft/internal/idgen"
	"github.com/alfredjeanlab/weft/internal/model"
	"github.com/alfredjeanlab/weft/internal/store"
)

// handleListWorkflows handles GET /api/tui/workflows.
func (s *WeftServer) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.ListWorkflows(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list workflows")
		return
	}

	// Ensure workflows is never null in JSON output.
	if summaries == nil {
		summaries = []model.WorkflowSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"workflows": summaries,
	})
}

// handleGetWorkflow handles GET /api/tui/workflows/{id}.
func (s *WeftServer) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	workflow, err := s.store.GetWorkflow(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "workflow not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get workflow")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"workflow": workflow,
	})
}

// handleCreateWorkflow handles POST /api/tui/workflows. The body is a full
// document without an ID; one is assigned.
func (s *WeftServer) handleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var workflow model.Workflow
	if err := json.NewDecoder(r.Body).Decode(&workflow); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if workflow.ID != "" {
		writeError(w, http.StatusBadRequest, "id must not be set; use PUT to save an existing workflow")
		return
	}

	id, err := idgen.Generate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate workflow ID")
		return
	}
	workflow.ID = id
	if workflow.Status == "" {
		workflow.Status = model.StatusDraft
	}
	now := time.Now().UTC()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	if err := model.ValidateWorkflow(&workflow); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveWorkflow(r.Context(), &workflow); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save workflow")
		return
	}

	s.publish(r.Context(), events.TopicWorkflowSaved, events.WorkflowSaved{WorkflowID: id})

	writeJSON(w, http.StatusCreated, map[string]any{
		"workflow": &workflow,
	})
}

// handleSaveWorkflow handles PUT /api/tui/workflows/{id}. The body is a full
// document; it replaces whatever the store holds under that ID. Any open
// graph store for the document is dropped so the next mutation reloads the
// saved state.
func (s *WeftServer) handleSaveWorkflow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var workflow model.Workflow
	if err := json.NewDecoder(r.Body).Decode(&workflow); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// The path ID is authoritative.
	workflow.ID = id
	if workflow.Status == "" {
		workflow.Status = model.StatusDraft
	}
	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}
	workflow.UpdatedAt = now

	if err := model.ValidateWorkflow(&workflow); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveWorkflow(r.Context(), &workflow); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save workflow")
		return
	}

	s.dropDocument(id)
	s.publish(r.Context(), events.TopicWorkflowSaved, events.WorkflowSaved{WorkflowID: id})

	writeJSON(w, http.StatusOK, map[string]any{
		"workflow": &workflow,
	})
}

// handleDeleteWorkflow handles DELETE /api/tui/workflows/{id}.
func (s *WeftServer) handleDeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteWorkflow(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "workflow not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete workflow")
		return
	}

	s.dropDocument(id)
	s.publish(r.Context(), events.TopicWorkflowDeleted, events.WorkflowDeleted{WorkflowID: id})

	w.WriteHeader(http.StatusNoContent)
}
