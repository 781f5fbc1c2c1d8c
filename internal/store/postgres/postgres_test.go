package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alfredjeanlab/weft/internal/model"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

var summaryRowColumns = []string{"id", "name", "status", "node_count", "compiler_version", "updated_at"}

func testDoc() *model.Workflow {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	return &model.Workflow{
		ID:              "wf-1",
		Name:            "mint pipeline",
		Version:         "3",
		Status:          model.StatusDraft,
		CompilerVersion: "0.42.1",
		Nodes:           []*model.Node{{ID: "n1", Type: "httpTrigger"}, {ID: "n2", Type: "emitResult"}},
		Edges:           []*model.Edge{{ID: "e1", Source: "n1", Target: "n2"}},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestQuerySaveWorkflow(t *testing.T) {
	db, mock := newMockDB(t)
	w := testDoc()

	mock.ExpectExec("INSERT INTO workflows").
		WithArgs(w.ID, w.Name, "draft", 2, "0.42.1", sqlmock.AnyArg(), w.CreatedAt, w.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := querySaveWorkflow(context.Background(), db, w); err != nil {
		t.Fatalf("querySaveWorkflow: %v", err)
	}
}

func TestQueryGetWorkflow(t *testing.T) {
	db, mock := newMockDB(t)
	w := testDoc()
	doc, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	mock.ExpectQuery("SELECT id, document FROM workflows WHERE id = \\$1").
		WithArgs("wf-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "document"}).AddRow("wf-1", doc))

	got, err := queryGetWorkflow(context.Background(), db, "wf-1")
	if err != nil {
		t.Fatalf("queryGetWorkflow: %v", err)
	}
	if got.ID != "wf-1" || len(got.Nodes) != 2 || len(got.Edges) != 1 {
		t.Errorf("got %+v", got)
	}
	if got.Edges[0].Source != "n1" || got.Edges[0].Target != "n2" {
		t.Errorf("edge endpoints lost in round trip: %+v", got.Edges[0])
	}
}

func TestQueryGetWorkflow_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT id, document FROM workflows WHERE id = \\$1").
		WithArgs("nonexistent").
		WillReturnError(sql.ErrNoRows)

	_, err := queryGetWorkflow(context.Background(), db, "nonexistent")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestQueryGetWorkflow_CorruptDocument(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT id, document FROM workflows WHERE id = \\$1").
		WithArgs("wf-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "document"}).AddRow("wf-1", []byte("{not json")))

	if _, err := queryGetWorkflow(context.Background(), db, "wf-1"); err == nil {
		t.Fatal("expected error for corrupt document")
	}
}

func TestQueryListWorkflows(t *testing.T) {
	db, mock := newMockDB(t)
	newer := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(summaryRowColumns).
		AddRow("wf-2", "kyc", "published", 5, "0.42.1", newer).
		AddRow("wf-1", "mint", "draft", 2, "", older)
	mock.ExpectQuery("SELECT id, name, status, node_count, compiler_version, updated_at").
		WillReturnRows(rows)

	got, err := queryListWorkflows(context.Background(), db)
	if err != nil {
		t.Fatalf("queryListWorkflows: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}
	if got[0].ID != "wf-2" || got[0].NodeCount != 5 || got[0].CompilerVersion != "0.42.1" {
		t.Errorf("first summary = %+v", got[0])
	}
	if got[1].UpdatedAt != older.UnixMilli() {
		t.Errorf("UpdatedAt = %d, want %d", got[1].UpdatedAt, older.UnixMilli())
	}
}

func TestQueryListWorkflows_Empty(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT id, name, status, node_count, compiler_version, updated_at").
		WillReturnRows(sqlmock.NewRows(summaryRowColumns))

	got, err := queryListWorkflows(context.Background(), db)
	if err != nil {
		t.Fatalf("queryListWorkflows: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestQueryDeleteWorkflow(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("DELETE FROM workflows WHERE id = \\$1").
		WithArgs("wf-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryDeleteWorkflow(context.Background(), db, "wf-1"); err != nil {
		t.Fatalf("queryDeleteWorkflow: %v", err)
	}
}

func TestQueryDeleteWorkflow_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("DELETE FROM workflows WHERE id = \\$1").
		WithArgs("nonexistent").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := queryDeleteWorkflow(context.Background(), db, "nonexistent")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
