// Package store defines the persistence interface for workflow documents.
package store

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/weft/internal/model"
)

// ErrNotFound is returned when no workflow with the requested ID exists.
var ErrNotFound = errors.New("workflow not found")

// Store is the persistence interface for workflow documents. Documents are
// saved and loaded whole: the graph store owns intra-document mutation, the
// persistence store only sees snapshots.
type Store interface {
	// SaveWorkflow inserts or replaces a document.
	SaveWorkflow(ctx context.Context, w *model.Workflow) error

	// GetWorkflow loads a full document. Returns ErrNotFound when absent.
	GetWorkflow(ctx context.Context, id string) (*model.Workflow, error)

	// ListWorkflows returns listing rows for all documents, most recently
	// updated first.
	ListWorkflows(ctx context.Context) ([]model.WorkflowSummary, error)

	// DeleteWorkflow removes a document. Returns ErrNotFound when absent.
	DeleteWorkflow(ctx context.Context, id string) error

	// Lifecycle
	Close() error
}
