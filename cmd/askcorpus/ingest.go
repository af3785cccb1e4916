package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askcorpus/askcorpus-go/internal/domain/entities"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [pdf-path | url]",
	Short: "Ingest a PDF file or a web page into the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	target := args[0]
	var result entities.IngestResult
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		result, err = a.ingest.IngestURL(cmd.Context(), target)
	} else {
		result, err = a.ingest.IngestPDF(cmd.Context(), target)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if !result.OK {
		return fmt.Errorf("%s", result.Message)
	}
	cmd.Printf("%s (%d chunks)\n", result.Message, result.ChunksAdded)
	return nil
}
