package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alfredjeanlab/weft/internal/model"
)

// workflowColumns is the column list used for SELECT statements that load
// full documents.
const workflowColumns = `id, document`

// summaryColumns is the denormalized column list for listing queries.
const summaryColumns = `id, name, status, node_count, compiler_version, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func querySaveWorkflow(ctx context.Context, db executor, w *model.Workflow) error {
	doc, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO workflows (id, name, status, node_count, compiler_version, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			node_count = EXCLUDED.node_count,
			compiler_version = EXCLUDED.compiler_version,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at`,
		w.ID,
		w.Name,
		string(w.Status),
		len(w.Nodes),
		w.CompilerVersion,
		doc,
		w.CreatedAt,
		w.UpdatedAt,
	)
	return err
}

func queryGetWorkflow(ctx context.Context, db executor, id string) (*model.Workflow, error) {
	row := db.QueryRowContext(ctx, `SELECT `+workflowColumns+` FROM workflows WHERE id = $1`, id)

	var (
		rowID string
		doc   []byte
	)
	if err := row.Scan(&rowID, &doc); err != nil {
		return nil, err
	}

	var w model.Workflow
	if err := json.Unmarshal(doc, &w); err != nil {
		return nil, fmt.Errorf("unmarshal document %s: %w", rowID, err)
	}
	return &w, nil
}

func queryListWorkflows(ctx context.Context, db executor) ([]model.WorkflowSummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+summaryColumns+`
		FROM workflows
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []model.WorkflowSummary{}
	for rows.Next() {
		var (
			s         model.WorkflowSummary
			updatedAt time.Time
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Status, &s.NodeCount, &s.CompilerVersion, &updatedAt); err != nil {
			return nil, err
		}
		s.UpdatedAt = updatedAt.UnixMilli()
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func queryDeleteWorkflow(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
