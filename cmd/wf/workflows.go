package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var workflowsCmd = &cobra.Command{
	Use:     "workflows",
	Short:   "List and inspect workflows",
	GroupID: "workflows",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := weftClient.FetchWorkflows(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(summaries)
			return nil
		}
		printWorkflowListTable(summaries)
		return nil
	},
}

var workflowsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a workflow document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workflow, err := weftClient.FetchWorkflow(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(workflow)
			return nil
		}
		printWorkflowDetail(workflow)
		return nil
	},
}

var workflowsBundleCmd = &cobra.Command{
	Use:   "bundle <id>",
	Short: "Download a workflow's compiled bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("output")

		bundle, err := weftClient.DownloadBundle(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		dest := filepath.Join(outDir, bundle.FileName)
		if err := os.WriteFile(dest, bundle.Content, 0o644); err != nil {
			return fmt.Errorf("write bundle: %w", err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", dest, len(bundle.Content))
		return nil
	},
}

func init() {
	workflowsBundleCmd.Flags().StringP("output", "o", ".", "directory to write the bundle into")

	workflowsCmd.AddCommand(workflowsShowCmd)
	workflowsCmd.AddCommand(workflowsBundleCmd)
}
