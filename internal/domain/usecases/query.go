// query.go composes retrieval, prompting, generation, guarding and
// scoring into the question-answering flow.
package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/askcorpus/askcorpus-go/internal/domain/entities"
	"github.com/askcorpus/askcorpus-go/internal/domain/evaluation"
	"github.com/askcorpus/askcorpus-go/internal/domain/guard"
	"github.com/askcorpus/askcorpus-go/internal/domain/ports"
	"github.com/askcorpus/askcorpus-go/internal/domain/prompt"
)

// QueryUseCase answers a question from the ingested corpus.
type QueryUseCase struct {
	retriever *Retriever
	llm       ports.LLMService
	evaluator *evaluation.Evaluator
	topK      int
}

// NewQueryUseCase creates a QueryUseCase with injected dependencies.
func NewQueryUseCase(retriever *Retriever, llm ports.LLMService, evaluator *evaluation.Evaluator, topK int) *QueryUseCase {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if evaluator == nil {
		evaluator = evaluation.New(evaluation.DefaultConfig())
	}
	return &QueryUseCase{
		retriever: retriever,
		llm:       llm,
		evaluator: evaluator,
		topK:      topK,
	}
}

// Ask runs the full pipeline: retrieve, prompt, generate, guard, score,
// attribute. Returns ports.ErrIndexNotFound untouched so front ends can
// tell the user to ingest first. An unconfigured LLM degrades into a
// zero-confidence result that still carries the retrieved sources.
func (uc *QueryUseCase) Ask(ctx context.Context, query string) (entities.QueryResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return entities.QueryResult{Sources: []string{}}, nil
	}

	records, similarities, err := uc.retriever.Retrieve(ctx, query, uc.topK)
	if err != nil {
		return entities.QueryResult{}, err
	}

	if len(records) == 0 {
		return entities.QueryResult{
			Answer:  guard.NoContext,
			Sources: []string{},
		}, nil
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}
	contextText := prompt.FormatContext(texts)

	raw, err := uc.llm.Generate(ctx, prompt.Build(contextText, query))
	if err != nil {
		if errors.Is(err, ports.ErrLLMNotConfigured) {
			// Retrieval worked even though generation did not: report the
			// misconfiguration but keep the citations.
			return entities.QueryResult{
				Answer:  fmt.Sprintf("LLM not configured.\n%v", err),
				Sources: evaluation.ExtractSources(records),
			}, nil
		}
		return entities.QueryResult{}, fmt.Errorf("generating answer: %w", err)
	}

	answer := guard.Answer(raw, true)
	return entities.QueryResult{
		Answer:     answer,
		Confidence: uc.evaluator.Evaluate(answer, contextText, similarities),
		Sources:    evaluation.ExtractSources(records),
	}, nil
}
