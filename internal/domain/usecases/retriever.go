// Package usecases contains application business rules. Usecases
// orchestrate entities and depend on port interfaces only.
package usecases

import (
	"context"
	"fmt"

	"github.com/askcorpus/askcorpus-go/internal/domain/entities"
	"github.com/askcorpus/askcorpus-go/internal/domain/ports"
)

// DefaultTopK is the number of chunks retrieved per query when the
// caller does not say otherwise.
const DefaultTopK = 5

// Retriever queries the vector index and converts raw distances into
// bounded similarity scores.
type Retriever struct {
	embedder ports.EmbeddingService
	index    ports.VectorIndex
}

// NewRetriever creates a Retriever with injected dependencies.
func NewRetriever(embedder ports.EmbeddingService, index ports.VectorIndex) *Retriever {
	return &Retriever{embedder: embedder, index: index}
}

// Retrieve embeds the query and returns the topK nearest records with
// their similarity scores, nearest first. Propagates
// ports.ErrIndexNotFound when nothing has been ingested.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]entities.Record, []float64, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding query: %w", err)
	}

	records, distances, err := r.index.Search(ctx, vector, topK)
	if err != nil {
		return nil, nil, err
	}

	similarities := make([]float64, len(distances))
	for i, d := range distances {
		similarities[i] = similarityFromDistance(d)
	}
	return records, similarities, nil
}

// similarityFromDistance maps a raw squared-L2 distance to (0, 1]:
// distance 0 scores 1.0 and larger distances approach 0. Raw distances
// are unbounded, so they cannot feed the confidence blend directly.
func similarityFromDistance(d float64) float64 {
	if d < 0 {
		d = 0
	}
	return 1.0 / (1.0 + d)
}
