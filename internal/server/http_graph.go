package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alfredjeanlab/weft/internal/graph"
	"github.com/alfredjeanlab/weft/internal/model"
	"github.com/alfredjeanlab/weft/internal/store"
)

// openDocument resolves the workflow's graph store and writes the error
// response itself when the workflow cannot be opened.
func (s *WeftServer) openDocument(w http.ResponseWriter, r *http.Request) (*graph.Store, bool) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return nil, false
	}

	g, err := s.document(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "workflow not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to open workflow")
		return nil, false
	}
	return g, true
}

// handleAddNode handles POST /v1/workflows/{id}/nodes.
func (s *WeftServer) handleAddNode(w http.ResponseWriter, r *http.Request) {
	g, ok := s.openDocument(w, r)
	if !ok {
		return
	}

	var node model.Node
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if node.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}

	added, err := g.AddNode(r.Context(), &node)
	if err != nil {
		if errors.Is(err, graph.ErrDuplicateID) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to add node")
		return
	}

	s.persist(r.Context(), g)
	writeJSON(w, http.StatusCreated, added)
}

// handleRemoveNode handles DELETE /v1/workflows/{id}/nodes/{node_id}.
// Removal cascades to edges incident on the node; their IDs are returned.
// Removing an absent node is a no-op.
func (s *WeftServer) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	g, ok := s.openDocument(w, r)
	if !ok {
		return
	}

	nodeID := r.PathValue("node_id")
	if nodeID == "" {
		writeError(w, http.StatusBadRequest, "node_id is required")
		return
	}

	removedEdges, err := g.RemoveNode(r.Context(), nodeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove node")
		return
	}

	if removedEdges == nil {
		removedEdges = []string{}
	}

	s.persist(r.Context(), g)
	writeJSON(w, http.StatusOK, map[string]any{
		"removedEdges": removedEdges,
	})
}

// handleAddEdge handles POST /v1/workflows/{id}/edges.
func (s *WeftServer) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	g, ok := s.openDocument(w, r)
	if !ok {
		return
	}

	var edge model.Edge
	if err := json.NewDecoder(r.Body).Decode(&edge); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if edge.Source == "" {
		writeError(w, http.StatusBadRequest, "source is required")
		return
	}
	if edge.Target == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	added, err := g.AddEdge(r.Context(), &edge)
	if err != nil {
		switch {
		case errors.Is(err, graph.ErrUnknownNode):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, graph.ErrDuplicateID):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to add edge")
		}
		return
	}

	s.persist(r.Context(), g)
	writeJSON(w, http.StatusCreated, added)
}

// handleRemoveEdge handles DELETE /v1/workflows/{id}/edges/{edge_id}.
// Removal is idempotent: deleting an edge that is already gone still
// returns 204.
func (s *WeftServer) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	g, ok := s.openDocument(w, r)
	if !ok {
		return
	}

	edgeID := r.PathValue("edge_id")
	if edgeID == "" {
		writeError(w, http.StatusBadRequest, "edge_id is required")
		return
	}

	removed, err := g.RemoveEdge(r.Context(), edgeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove edge")
		return
	}

	if removed {
		s.persist(r.Context(), g)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSelectEdge handles POST /v1/workflows/{id}/edges/{edge_id}/select.
// Each call flips the edge's selection state and returns the new state.
func (s *WeftServer) handleSelectEdge(w http.ResponseWriter, r *http.Request) {
	g, ok := s.openDocument(w, r)
	if !ok {
		return
	}

	edgeID := r.PathValue("edge_id")
	if edgeID == "" {
		writeError(w, http.StatusBadRequest, "edge_id is required")
		return
	}

	selected, err := g.ToggleEdgeSelection(r.Context(), edgeID)
	if err != nil {
		if errors.Is(err, graph.ErrUnknownEdge) {
			writeError(w, http.StatusNotFound, "edge not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to toggle selection")
		return
	}

	s.persist(r.Context(), g)
	writeJSON(w, http.StatusOK, map[string]any{
		"edgeId":   edgeID,
		"selected": selected,
	})
}
