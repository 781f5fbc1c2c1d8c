// Package server exposes the workflow editor API over HTTP: document CRUD
// for the TUI client, graph mutations, and an SSE event stream.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/weft/internal/events"
	"github.com/alfredjeanlab/weft/internal/graph"
	"github.com/alfredjeanlab/weft/internal/store"
)

// WeftServer serves workflow documents from the store and routes graph
// mutations through per-document graph stores.
type WeftServer struct {
	store  store.Store
	pub    events.Publisher
	sseHub *sseHub

	mu   sync.Mutex
	docs map[string]*graph.Store // open documents by workflow ID
}

// NewWeftServer returns a new WeftServer backed by the given store and publisher.
func NewWeftServer(s store.Store, p events.Publisher) *WeftServer {
	hub := newSSEHub()
	return &WeftServer{
		store:  s,
		pub:    &fanoutPublisher{inner: p, hub: hub},
		sseHub: hub,
		docs:   make(map[string]*graph.Store),
	}
}

// fanoutPublisher forwards events to the external publisher and broadcasts
// them to connected SSE clients.
type fanoutPublisher struct {
	inner events.Publisher
	hub   *sseHub
}

func (p *fanoutPublisher) Publish(ctx context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event for SSE broadcast", "topic", topic, "error", err)
	} else {
		p.hub.broadcast(topic, payload)
	}
	return p.inner.Publish(ctx, topic, event)
}

func (p *fanoutPublisher) Close() error {
	return p.inner.Close()
}

// document returns the open graph store for the workflow, loading it from
// the persistence store on first access.
func (s *WeftServer) document(ctx context.Context, id string) (*graph.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.docs[id]; ok {
		return g, nil
	}

	w, err := s.store.GetWorkflow(ctx, id)
	if err != nil {
		return nil, err
	}

	g := graph.New(s.pub, slog.Default())
	if err := g.Load(ctx, w); err != nil {
		return nil, fmt.Errorf("open workflow %s: %w", id, err)
	}
	s.docs[id] = g
	return g, nil
}

// dropDocument closes the open graph store for the workflow, if any. Called
// after a full-document save or a delete so the next access reloads from
// the persistence store.
func (s *WeftServer) dropDocument(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.docs[id]; ok {
		g.Unload()
		delete(s.docs, id)
	}
}

// persist writes the current document snapshot back to the store with a
// fresh UpdatedAt. Failures are logged; the in-memory document stays
// authoritative until the next successful save.
func (s *WeftServer) persist(ctx context.Context, g *graph.Store) {
	snap := g.Snapshot()
	if snap == nil {
		return
	}
	snap.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveWorkflow(ctx, snap); err != nil {
		slog.Warn("failed to persist workflow", "workflow_id", snap.ID, "error", err)
	}
}

// publish sends a server-level event to NATS and SSE. Best-effort; failures
// are logged but do not block the caller.
func (s *WeftServer) publish(ctx context.Context, topic string, event any) {
	if err := s.pub.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}
