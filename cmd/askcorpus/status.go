package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index record count",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	count, err := a.index.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading index: %w", err)
	}

	if count == 0 {
		cmd.Println("Index is empty. Ingest a PDF or URL first.")
		return nil
	}
	cmd.Printf("Index holds %d chunks at %s\n", count, cfg.IndexPath())
	return nil
}
