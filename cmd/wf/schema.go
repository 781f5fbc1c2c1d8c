package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alfredjeanlab/weft/internal/schema"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:     "schema [file]",
	Short:   "Render a data schema as a tree",
	GroupID: "schemas",
	Long: `Render a data schema as an indented tree, one row per schema node.

The schema is read from a JSON file, or from a node's output schema when
--workflow and --node are given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workflowID, _ := cmd.Flags().GetString("workflow")
		nodeID, _ := cmd.Flags().GetString("node")
		label, _ := cmd.Flags().GetString("label")

		var s *schema.Schema
		switch {
		case len(args) == 1:
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			s = &schema.Schema{}
			if err := json.Unmarshal(data, s); err != nil {
				return fmt.Errorf("parse schema: %w", err)
			}
		case workflowID != "" && nodeID != "":
			workflow, err := weftClient.FetchWorkflow(cmd.Context(), workflowID)
			if err != nil {
				return err
			}
			for _, n := range workflow.Nodes {
				if n.ID == nodeID {
					s = n.OutputSchema
					break
				}
			}
			if s == nil {
				return fmt.Errorf("node %q not found or has no output schema", nodeID)
			}
		default:
			return fmt.Errorf("give a schema file, or --workflow and --node")
		}

		if err := schema.Validate(s); err != nil {
			return err
		}

		if jsonOutput {
			printJSON(schema.Rows(s, label))
			return nil
		}
		printSchemaTree(s, label)
		return nil
	},
}

func init() {
	schemaCmd.Flags().String("workflow", "", "workflow ID to read the schema from")
	schemaCmd.Flags().String("node", "", "node ID whose output schema to render")
	schemaCmd.Flags().String("label", "root", "label for the root row")
}
