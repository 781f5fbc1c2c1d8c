package model

import (
	"strings"
	"testing"
	"time"
)

func TestStatus_IsValid(t *testing.T) {
	for _, tc := range []struct {
		status Status
		want   bool
	}{
		{StatusDraft, true},
		{StatusPublished, true},
		{StatusPaused, true},
		{StatusArchived, true},
		{Status(""), false},
		{Status("bogus"), false},
	} {
		if got := tc.status.IsValid(); got != tc.want {
			t.Errorf("Status(%q).IsValid() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestWorkflow_Summary(t *testing.T) {
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	w := &Workflow{
		ID:              "wf-abc",
		Name:            "mint pipeline",
		Status:          StatusPublished,
		CompilerVersion: "0.42.1",
		Nodes:           []*Node{{ID: "n1"}, {ID: "n2"}, {ID: "n3"}},
		UpdatedAt:       updated,
	}

	got := w.Summary()
	if got.ID != "wf-abc" || got.Name != "mint pipeline" {
		t.Errorf("Summary() identity = %q/%q", got.ID, got.Name)
	}
	if got.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", got.NodeCount)
	}
	if got.Status != "published" {
		t.Errorf("Status = %q, want published", got.Status)
	}
	if got.UpdatedAt != updated.UnixMilli() {
		t.Errorf("UpdatedAt = %d, want %d", got.UpdatedAt, updated.UnixMilli())
	}
	if got.CompilerVersion != "0.42.1" {
		t.Errorf("CompilerVersion = %q, want 0.42.1", got.CompilerVersion)
	}
}

func TestValidateWorkflow(t *testing.T) {
	valid := func() *Workflow {
		return &Workflow{
			Name:   "ok",
			Status: StatusDraft,
			Nodes:  []*Node{{ID: "n1"}, {ID: "n2"}},
			Edges:  []*Edge{{ID: "e1", Source: "n1", Target: "n2"}},
		}
	}

	for _, tc := range []struct {
		name    string
		mutate  func(w *Workflow)
		wantErr string // substring, "" = valid
	}{
		{
			name:   "valid",
			mutate: func(w *Workflow) {},
		},
		{
			name:    "missing name",
			mutate:  func(w *Workflow) { w.Name = "  " },
			wantErr: "name: is required",
		},
		{
			name:    "unknown status",
			mutate:  func(w *Workflow) { w.Status = "bogus" },
			wantErr: `invalid value "bogus"`,
		},
		{
			name:    "duplicate node id",
			mutate:  func(w *Workflow) { w.Nodes = append(w.Nodes, &Node{ID: "n1"}) },
			wantErr: `duplicate node id "n1"`,
		},
		{
			name:    "duplicate edge id",
			mutate:  func(w *Workflow) { w.Edges = append(w.Edges, &Edge{ID: "e1", Source: "n2", Target: "n1"}) },
			wantErr: `duplicate edge id "e1"`,
		},
		{
			name:    "edge missing source",
			mutate:  func(w *Workflow) { w.Edges[0].Source = "" },
			wantErr: "source is required",
		},
		{
			name:    "edge to unknown node",
			mutate:  func(w *Workflow) { w.Edges[0].Target = "ghost" },
			wantErr: `target "ghost" is not a known node`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := valid()
			tc.mutate(w)
			err := ValidateWorkflow(w)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateWorkflow() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateWorkflow() = nil, want error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("ValidateWorkflow() = %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}
