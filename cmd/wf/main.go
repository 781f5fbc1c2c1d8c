package main

import (
	"os"

	"github.com/alfredjeanlab/weft/internal/client"
	"github.com/alfredjeanlab/weft/internal/ui"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool

	weftClient *client.Client
)

func defaultServerURL() string {
	if s := os.Getenv("WEFT_URL"); s != "" {
		return s
	}
	if u := activeProfileURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultAuthToken() string {
	if s := os.Getenv("WEFT_TOKEN"); s != "" {
		return s
	}
	return activeProfileToken()
}

var rootCmd = &cobra.Command{
	Use:   "wf <command>",
	Short: "CLI client for the Weft workflow service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		weftClient = client.New(serverURL, authToken)
		return nil
	},
}

func init() {
	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "url", defaultServerURL(), "server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultAuthToken(), "bearer token for the server")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "workflows", Title: "Workflows:"},
		&cobra.Group{ID: "schemas", Title: "Schemas:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Workflows
	rootCmd.AddCommand(workflowsCmd)
	rootCmd.AddCommand(watchCmd)

	// Schemas
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(previewCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
