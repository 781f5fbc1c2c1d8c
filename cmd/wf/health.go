package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check server health",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := weftClient.Health(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("server %s: %s\n", serverURL, status)
		return nil
	},
}
