package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/askcorpus/askcorpus-go/internal/config"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "askcorpus",
	Short: "Grounded Q&A over your own documents",
	Long: `askcorpus ingests PDFs and web pages into a local vector index
and answers questions grounded in that corpus, with confidence scores
and source citations.

Embeddings come from a local Ollama instance; answers come from the
Groq API (set GROQ_API_KEY in the environment or a .env file).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Credentials may live in a .env file next to the binary.
		_ = godotenv.Load()

		var err error
		if cfgPath != "" {
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("loading config %s: %w", cfgPath, err)
			}
			return nil
		}
		cfg, _, err = config.LoadDefault()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")
}
