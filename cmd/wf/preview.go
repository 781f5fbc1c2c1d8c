package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alfredjeanlab/weft/internal/schema"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:     "preview [file]",
	Short:   "Render a one-line preview of a JSON value",
	GroupID: "schemas",
	Long: `Render a JSON value as a compact one-line preview, the same rendering
the editor shows next to schema rows. Reads from the file argument, or from
stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	// Skip client setup; preview is a local operation.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}

		var value any
		if err := json.Unmarshal(data, &value); err != nil {
			return fmt.Errorf("parse value: %w", err)
		}

		fmt.Println(schema.Preview(value))
		return nil
	},
}
