package server

import (
	"context"
	"sort"
	"sync"

	"github.com/alfredjeanlab/weft/internal/model"
	"github.com/alfredjeanlab/weft/internal/store"
)

var _ store.Store = (*mockStore)(nil)

// mockStore is a minimal in-memory store for handler tests.
type mockStore struct {
	mu        sync.Mutex
	workflows map[string]*model.Workflow
	saveErr   error
}

func newMockStore() *mockStore {
	return &mockStore{workflows: make(map[string]*model.Workflow)}
}

func (m *mockStore) SaveWorkflow(_ context.Context, w *model.Workflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.workflows[w.ID] = w
	return nil
}

func (m *mockStore) GetWorkflow(_ context.Context, id string) (*model.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workflows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return w, nil
}

func (m *mockStore) ListWorkflows(_ context.Context) ([]model.WorkflowSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.WorkflowSummary, 0, len(m.workflows))
	for _, w := range m.workflows {
		result = append(result, w.Summary())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *mockStore) DeleteWorkflow(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workflows[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.workflows, id)
	return nil
}

func (m *mockStore) Close() error { return nil }

// saved returns the stored document for id, or nil.
func (m *mockStore) saved(id string) *model.Workflow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.workflows[id]
}
