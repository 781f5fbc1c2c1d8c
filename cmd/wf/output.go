package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alfredjeanlab/weft/internal/model"
	"github.com/alfredjeanlab/weft/internal/schema"
	"github.com/alfredjeanlab/weft/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printWorkflowListTable(summaries []model.WorkflowSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tNODES\tUPDATED")
	for _, s := range summaries {
		name := s.Name
		if len(name) > 50 {
			name = name[:47] + "..."
		}
		updated := time.UnixMilli(s.UpdatedAt).Format("2006-01-02 15:04:05")
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			s.ID,
			name,
			ui.RenderStatus(s.Status),
			s.NodeCount,
			updated,
		)
	}
	w.Flush()
	fmt.Printf("\n%d workflows\n", len(summaries))
}

func printWorkflowDetail(wf *model.Workflow) {
	fmt.Printf("ID:          %s\n", wf.ID)
	fmt.Printf("Name:        %s\n", wf.Name)
	fmt.Printf("Status:      %s\n", ui.RenderStatus(string(wf.Status)))
	if wf.Version != "" {
		fmt.Printf("Version:     %s\n", wf.Version)
	}
	if wf.CompilerVersion != "" {
		fmt.Printf("Compiler:    %s\n", wf.CompilerVersion)
	}
	if wf.Description != "" {
		fmt.Printf("Description: %s\n", wf.Description)
	}
	if !wf.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", wf.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if !wf.UpdatedAt.IsZero() {
		fmt.Printf("Updated At:  %s\n", wf.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if len(wf.Nodes) > 0 {
		fmt.Println("\nNodes:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tTYPE\tLABEL\tOUTPUT")
		for _, n := range wf.Nodes {
			output := ""
			if n.OutputSchema != nil {
				output = n.OutputSchema.Kind().String()
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", n.ID, n.Type, n.Label, output)
		}
		w.Flush()
	}

	if len(wf.Edges) > 0 {
		fmt.Println("\nEdges:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tSOURCE\tTARGET\tSELECTED")
		for _, e := range wf.Edges {
			selected := ""
			if e.Selected {
				selected = "*"
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", e.ID, e.Source, e.Target, selected)
		}
		w.Flush()
	}
}

// printSchemaTree renders a schema as an indented tree, one row per node.
func printSchemaTree(s *schema.Schema, label string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	schema.Walk(s, label, func(row schema.Row) bool {
		indent := strings.Repeat("  ", row.Depth)
		path := ""
		if row.Path != "" {
			path = ui.RenderMuted(row.Path)
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\n", indent, row.Label, ui.RenderAccent(row.Kind.String()), path)
		return true
	})
	w.Flush()
}
