package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askcorpus/askcorpus-go/internal/domain/ports"
	httpapi "github.com/askcorpus/askcorpus-go/internal/infrastructure/http"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the ingested corpus",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askTopK > 0 {
		cfg.Retrieval.TopK = askTopK
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.query.Ask(cmd.Context(), args[0])
	if errors.Is(err, ports.ErrIndexNotFound) {
		cmd.Println(httpapi.EmptyIndexMessage)
		return nil
	}
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(result.Answer)
	cmd.Printf("\nConfidence: %.2f\n", result.Confidence)
	if len(result.Sources) > 0 {
		cmd.Println("Sources:")
		for _, s := range result.Sources {
			cmd.Printf("  - %s\n", s)
		}
	}
	return nil
}
