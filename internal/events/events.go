package events

import (
	"context"

	"github.com/alfredjeanlab/weft/internal/model"
)

// Event topic constants
const (
	TopicWorkflowLoaded  = "weft.workflow.loaded"
	TopicWorkflowSaved   = "weft.workflow.saved"
	TopicWorkflowDeleted = "weft.workflow.deleted"

	TopicNodeAdded   = "weft.node.added"
	TopicNodeRemoved = "weft.node.removed"

	TopicEdgeAdded    = "weft.edge.added"
	TopicEdgeRemoved  = "weft.edge.removed"
	TopicEdgeSelected = "weft.edge.selected"
)

// Event types

type WorkflowLoaded struct {
	WorkflowID string `json:"workflow_id"`
	NodeCount  int    `json:"node_count"`
	EdgeCount  int    `json:"edge_count"`
}

type WorkflowSaved struct {
	WorkflowID string `json:"workflow_id"`
}

type WorkflowDeleted struct {
	WorkflowID string `json:"workflow_id"`
}

type NodeAdded struct {
	WorkflowID string      `json:"workflow_id"`
	Node       *model.Node `json:"node"`
}

// NodeRemoved carries the IDs of edges removed along with the node: node
// removal cascades to incident edges so the document never holds a dangling
// edge.
type NodeRemoved struct {
	WorkflowID   string   `json:"workflow_id"`
	NodeID       string   `json:"node_id"`
	RemovedEdges []string `json:"removed_edges,omitempty"`
}

type EdgeAdded struct {
	WorkflowID string      `json:"workflow_id"`
	Edge       *model.Edge `json:"edge"`
}

type EdgeRemoved struct {
	WorkflowID string `json:"workflow_id"`
	EdgeID     string `json:"edge_id"`
}

type EdgeSelected struct {
	WorkflowID string `json:"workflow_id"`
	EdgeID     string `json:"edge_id"`
	Selected   bool   `json:"selected"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber is the consuming side of the bus. Subscribe delivers raw JSON
// payloads for a topic on the returned channel; the cancel function
// unsubscribes and closes it.
type Subscriber interface {
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}
