// Package model defines the workflow document types shared by the graph
// store, the persistence layer, and the frontend API.
package model

import (
	"encoding/json"
	"time"

	"github.com/alfredjeanlab/weft/internal/schema"
)

// Status represents the lifecycle state of a workflow document.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusPaused    Status = "paused"
	StatusArchived  Status = "archived"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusPaused, StatusArchived:
		return true
	}
	return false
}

// Position is a node's placement on the editor canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one workflow node. Config is opaque to this layer: its shape is
// owned by the node-execution system and varies per node type. OutputSchema
// describes the shape of the values the node emits, when declared or
// inferred; nil when unknown.
type Node struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Label        string          `json:"label"`
	Position     Position        `json:"position"`
	Config       json.RawMessage `json:"config,omitempty"`
	OutputSchema *schema.Schema  `json:"outputSchema,omitempty"`
}

// Edge is a directed connection between two nodes. Identity is ID; Source
// and Target reference node IDs owned by the document's node collection.
// Selected and Marker are presentation state and never affect structure.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
	Selected     bool   `json:"selected,omitempty"`
	Marker       string `json:"marker,omitempty"`
}

// Workflow is one editor document: the node/edge topology plus metadata.
// CompilerVersion records which compiler release last processed the
// document; empty for documents that were never compiled.
type Workflow struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Version         string    `json:"version"`
	Status          Status    `json:"status"`
	CompilerVersion string    `json:"compilerVersion,omitempty"`
	Nodes           []*Node   `json:"nodes"`
	Edges           []*Edge   `json:"edges"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// WorkflowSummary is the listing row returned by the frontend API.
// UpdatedAt is a Unix millisecond timestamp, matching the frontend's wire
// format.
type WorkflowSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	UpdatedAt       int64  `json:"updatedAt"`
	NodeCount       int    `json:"nodeCount"`
	Status          string `json:"status"`
	CompilerVersion string `json:"compilerVersion,omitempty"`
}

// Summary derives the listing row for a workflow.
func (w *Workflow) Summary() WorkflowSummary {
	return WorkflowSummary{
		ID:              w.ID,
		Name:            w.Name,
		UpdatedAt:       w.UpdatedAt.UnixMilli(),
		NodeCount:       len(w.Nodes),
		Status:          string(w.Status),
		CompilerVersion: w.CompilerVersion,
	}
}
