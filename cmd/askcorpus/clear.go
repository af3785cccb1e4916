package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all ingested records and vectors",
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ingest.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	cmd.Println("Index cleared.")
	return nil
}
