// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions, not concrete implementations;
// adapters implement them.
package ports

import (
	"context"
	"errors"

	"github.com/askcorpus/askcorpus-go/internal/domain/entities"
)

// ErrIndexNotFound is returned by VectorIndex.Search when no index has
// been built yet. Front ends translate it into an "ingest first"
// instruction for the user.
var ErrIndexNotFound = errors.New("vector index not found")

// ErrLLMNotConfigured is returned by LLMService.Generate when required
// credentials are missing. It is a configuration error, distinct from
// transient call failures, so the orchestrator can degrade gracefully.
var ErrLLMNotConfigured = errors.New("llm not configured")

// EmbeddingService generates vector embeddings for text.
// Embeddings must be deterministic for a fixed model identifier.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, one vector per
	// input in the same order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMService generates text responses from a language model.
type LLMService interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// VectorIndex persists chunk records positionally aligned with their
// embedding vectors and supports nearest-neighbor search.
//
// Invariant: record count always equals vector count. Append is the only
// mutation besides Clear. Callers must serialize Append/Clear/Search
// against each other; the index performs load-modify-persist without
// versioning.
type VectorIndex interface {
	// Append embeds nothing itself: it stores the given records with their
	// precomputed vectors, creating the index if it does not exist.
	// len(records) must equal len(vectors).
	Append(ctx context.Context, records []entities.Record, vectors [][]float32) error

	// Search returns up to topK records nearest to the query vector by L2
	// distance, nearest first, paired with the raw distances. Returns
	// ErrIndexNotFound when no index exists.
	Search(ctx context.Context, vector []float32, topK int) ([]entities.Record, []float64, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Clear deletes all records and vectors. Subsequent searches return
	// ErrIndexNotFound.
	Clear(ctx context.Context) error
}

// PDFExtractor extracts per-page text from a PDF file.
type PDFExtractor interface {
	// Pages returns the non-empty pages of the PDF at path.
	Pages(ctx context.Context, path string) ([]entities.Page, error)
}

// WebExtractor fetches a web page and returns its readable text with
// markup, scripts and styles stripped and blank lines removed.
type WebExtractor interface {
	Text(ctx context.Context, url string) (string, error)
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
