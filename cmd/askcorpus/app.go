package main

import (
	"fmt"

	"github.com/askcorpus/askcorpus-go/internal/adapters/embedding"
	"github.com/askcorpus/askcorpus-go/internal/adapters/extract"
	"github.com/askcorpus/askcorpus-go/internal/adapters/llm"
	"github.com/askcorpus/askcorpus-go/internal/adapters/vectorindex"
	"github.com/askcorpus/askcorpus-go/internal/domain/chunker"
	"github.com/askcorpus/askcorpus-go/internal/domain/usecases"
)

// app wires adapters and usecases from the loaded config. Commands
// build one, use it and close it.
type app struct {
	index  *vectorindex.SQLiteIndex
	ingest *usecases.IngestUseCase
	query  *usecases.QueryUseCase
}

func newApp() (*app, error) {
	index, err := vectorindex.Open(cfg.IndexPath())
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	embedder := embedding.NewOllamaAdapter(cfg.Embedder.BaseURL, cfg.Embedder.Model)
	generator := llm.NewGroqAdapter(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.APIKeyEnv)
	chunks := chunker.New(cfg.Chunker.MaxWords, cfg.Chunker.OverlapWords)

	ingest := usecases.NewIngestUseCase(
		extract.NewPDFExtractor(),
		extract.NewWebExtractor(cfg.RawWebDir()),
		embedder,
		index,
		chunks,
		cfg.RawPDFsDir(),
		cfg.RawTextDir(),
	)

	query := usecases.NewQueryUseCase(
		usecases.NewRetriever(embedder, index),
		generator,
		nil,
		cfg.Retrieval.TopK,
	)

	return &app{index: index, ingest: ingest, query: query}, nil
}

func (a *app) close() {
	a.index.Close()
}
