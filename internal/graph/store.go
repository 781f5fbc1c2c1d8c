// Package graph holds the mutable node/edge state of one open workflow
// document and the mutation operations the editor canvas invokes on it.
//
// A Store is the single owner of its document: all writes go through the
// mutation API, which applies them in call order under one mutex, publishes
// a typed event for each structural change, and notifies watchers so bound
// UI re-renders. Documents are replaced wholesale on load and discarded on
// unload; the store never mutates a workflow it has handed out.
package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/weft/internal/events"
	"github.com/alfredjeanlab/weft/internal/idgen"
	"github.com/alfredjeanlab/weft/internal/model"
)

var (
	// ErrNoDocument is returned by mutations invoked before Load.
	ErrNoDocument = errors.New("no document loaded")

	// ErrUnknownNode is returned when an edge endpoint or node ID does not
	// reference a node in the document.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned by selection operations on an absent edge.
	// RemoveEdge deliberately does not use it: removal of an absent edge is
	// a no-op, not an error.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrDuplicateID is returned when an explicit node or edge ID collides
	// with an existing one.
	ErrDuplicateID = errors.New("duplicate id")
)

// Change describes one applied mutation, delivered to watchers.
type Change struct {
	Topic string
	Event any
}

// Store is the mutable graph state for one open workflow document.
type Store struct {
	publisher events.Publisher
	logger    *slog.Logger

	mu       sync.Mutex
	doc      *model.Workflow
	watchers map[chan Change]struct{}
}

// New creates an empty store. Pass a NoopPublisher when events are not
// configured.
func New(publisher events.Publisher, logger *slog.Logger) *Store {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		publisher: publisher,
		logger:    logger,
		watchers:  make(map[chan Change]struct{}),
	}
}

// Load replaces the store's state with the given document. The store keeps
// its own copy, so later mutations are not visible through the caller's
// pointer.
func (s *Store) Load(ctx context.Context, w *model.Workflow) error {
	if w == nil {
		return errors.New("load: nil workflow")
	}
	if err := model.ValidateWorkflow(w); err != nil {
		return fmt.Errorf("load %s: %w", w.ID, err)
	}

	s.mu.Lock()
	s.doc = copyWorkflow(w)
	loaded := events.WorkflowLoaded{
		WorkflowID: w.ID,
		NodeCount:  len(w.Nodes),
		EdgeCount:  len(w.Edges),
	}
	s.mu.Unlock()

	s.emit(ctx, events.TopicWorkflowLoaded, loaded)
	return nil
}

// Unload discards the current document. Mutations fail with ErrNoDocument
// until the next Load.
func (s *Store) Unload() {
	s.mu.Lock()
	s.doc = nil
	s.mu.Unlock()
}

// WorkflowID returns the loaded document's ID, or "" when nothing is loaded.
func (s *Store) WorkflowID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ""
	}
	return s.doc.ID
}

// AddNode appends a node to the document. An empty ID is assigned one;
// an explicit ID must not collide with an existing node.
func (s *Store) AddNode(ctx context.Context, n *model.Node) (*model.Node, error) {
	if n == nil {
		return nil, errors.New("add node: nil node")
	}

	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return nil, ErrNoDocument
	}
	added := *n
	if added.ID == "" {
		id, err := idgen.GenerateWithPrefix(idgen.NodePrefix)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		added.ID = id
	} else if s.nodeLocked(added.ID) != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("add node %s: %w", added.ID, ErrDuplicateID)
	}
	s.doc.Nodes = append(s.doc.Nodes, &added)
	workflowID := s.doc.ID
	s.mu.Unlock()

	s.emit(ctx, events.TopicNodeAdded, events.NodeAdded{WorkflowID: workflowID, Node: &added})
	return &added, nil
}

// RemoveNode removes the node and every edge incident to it. Removing an
// absent node is a no-op. It returns the IDs of the edges removed by the
// cascade.
func (s *Store) RemoveNode(ctx context.Context, id string) ([]string, error) {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return nil, ErrNoDocument
	}
	if s.nodeLocked(id) == nil {
		s.mu.Unlock()
		return nil, nil
	}

	nodes := s.doc.Nodes[:0]
	for _, n := range s.doc.Nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	s.doc.Nodes = nodes

	var removedEdges []string
	edges := s.doc.Edges[:0]
	for _, e := range s.doc.Edges {
		if e.Source == id || e.Target == id {
			removedEdges = append(removedEdges, e.ID)
			continue
		}
		edges = append(edges, e)
	}
	s.doc.Edges = edges
	workflowID := s.doc.ID
	s.mu.Unlock()

	s.emit(ctx, events.TopicNodeRemoved, events.NodeRemoved{
		WorkflowID:   workflowID,
		NodeID:       id,
		RemovedEdges: removedEdges,
	})
	return removedEdges, nil
}

// AddEdge appends an edge to the document. Both endpoints must reference
// existing nodes at the moment the edge is added. An empty ID is assigned
// one; an explicit ID must not collide with an existing edge.
func (s *Store) AddEdge(ctx context.Context, e *model.Edge) (*model.Edge, error) {
	if e == nil {
		return nil, errors.New("add edge: nil edge")
	}

	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return nil, ErrNoDocument
	}
	if s.nodeLocked(e.Source) == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("add edge: source %q: %w", e.Source, ErrUnknownNode)
	}
	if s.nodeLocked(e.Target) == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("add edge: target %q: %w", e.Target, ErrUnknownNode)
	}
	added := *e
	if added.ID == "" {
		id, err := idgen.GenerateWithPrefix(idgen.EdgePrefix)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		added.ID = id
	} else if s.edgeLocked(added.ID) != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("add edge %s: %w", added.ID, ErrDuplicateID)
	}
	s.doc.Edges = append(s.doc.Edges, &added)
	workflowID := s.doc.ID
	s.mu.Unlock()

	s.emit(ctx, events.TopicEdgeAdded, events.EdgeAdded{WorkflowID: workflowID, Edge: &added})
	return &added, nil
}

// RemoveEdge removes the edge with the given ID if present and reports
// whether an edge was removed. Removing an absent ID is a no-op, so the
// operation is idempotent: a second call with the same ID leaves the edge
// collection unchanged.
func (s *Store) RemoveEdge(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return false, ErrNoDocument
	}

	removed := false
	edges := s.doc.Edges[:0]
	for _, e := range s.doc.Edges {
		if e.ID == id {
			removed = true
			continue
		}
		edges = append(edges, e)
	}
	s.doc.Edges = edges
	workflowID := s.doc.ID
	s.mu.Unlock()

	if removed {
		s.emit(ctx, events.TopicEdgeRemoved, events.EdgeRemoved{WorkflowID: workflowID, EdgeID: id})
	}
	return removed, nil
}

// ToggleEdgeSelection flips the edge's selection state and returns the new
// state. Selection is presentation state: it never affects the edge's
// structural lifetime or its eligibility for removal.
func (s *Store) ToggleEdgeSelection(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return false, ErrNoDocument
	}
	e := s.edgeLocked(id)
	if e == nil {
		s.mu.Unlock()
		return false, fmt.Errorf("select edge %s: %w", id, ErrUnknownEdge)
	}
	e.Selected = !e.Selected
	selected := e.Selected
	workflowID := s.doc.ID
	s.mu.Unlock()

	s.emit(ctx, events.TopicEdgeSelected, events.EdgeSelected{
		WorkflowID: workflowID,
		EdgeID:     id,
		Selected:   selected,
	})
	return selected, nil
}

// Node returns a copy of the node with the given ID, or nil.
func (s *Store) Node(id string) *model.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	if n := s.nodeLocked(id); n != nil {
		c := *n
		return &c
	}
	return nil
}

// Edge returns a copy of the edge with the given ID, or nil.
func (s *Store) Edge(id string) *model.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	if e := s.edgeLocked(id); e != nil {
		c := *e
		return &c
	}
	return nil
}

// Nodes returns copies of all nodes in document order.
func (s *Store) Nodes() []*model.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	out := make([]*model.Node, len(s.doc.Nodes))
	for i, n := range s.doc.Nodes {
		c := *n
		out[i] = &c
	}
	return out
}

// Edges returns copies of all edges in document order.
func (s *Store) Edges() []*model.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	out := make([]*model.Edge, len(s.doc.Edges))
	for i, e := range s.doc.Edges {
		c := *e
		out[i] = &c
	}
	return out
}

// Snapshot returns a copy of the whole document for persistence, or nil
// when nothing is loaded.
func (s *Store) Snapshot() *model.Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	return copyWorkflow(s.doc)
}

// Watch registers a watcher that receives a Change for every applied
// mutation. The returned cancel function unregisters it and closes the
// channel. Slow watchers drop changes rather than block mutations.
func (s *Store) Watch() (<-chan Change, func()) {
	ch := make(chan Change, 64)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// emit publishes the event and fans it out to watchers. Publishing is
// best-effort; failures are logged and do not fail the mutation.
func (s *Store) emit(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.watchers {
		select {
		case ch <- Change{Topic: topic, Event: event}:
		default:
			s.logger.Warn("watcher is not keeping up, dropping change", "topic", topic)
		}
	}
}

func (s *Store) nodeLocked(id string) *model.Node {
	for _, n := range s.doc.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (s *Store) edgeLocked(id string) *model.Edge {
	for _, e := range s.doc.Edges {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func copyWorkflow(w *model.Workflow) *model.Workflow {
	c := *w
	c.Nodes = make([]*model.Node, len(w.Nodes))
	for i, n := range w.Nodes {
		nc := *n
		c.Nodes[i] = &nc
	}
	c.Edges = make([]*model.Edge, len(w.Edges))
	for i, e := range w.Edges {
		ec := *e
		c.Edges[i] = &ec
	}
	return &c
}
