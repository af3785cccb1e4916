package usecases

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askcorpus/askcorpus-go/internal/domain/entities"
	"github.com/askcorpus/askcorpus-go/internal/domain/guard"
	"github.com/askcorpus/askcorpus-go/internal/domain/ports"
)

// mockLLM implements ports.LLMService.
type mockLLM struct {
	response string
	err      error
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// emptySearchIndex reports an existing index that matches nothing.
type emptySearchIndex struct{ mockIndex }

func (e *emptySearchIndex) Search(ctx context.Context, vector []float32, topK int) ([]entities.Record, []float64, error) {
	return nil, nil, nil
}

func populatedIndex() *mockIndex {
	return &mockIndex{
		records: []entities.Record{
			entities.NewPDFRecord("sre.pdf", 12, "Error budgets cap the rollout pace."),
			entities.NewPDFRecord("sre.pdf", 12, "Burn rate alerts page the on-call."),
			entities.NewWebRecord("https://example.com/slo", "SLO targets are reviewed quarterly."),
		},
		vectors: [][]float32{{1, 0}, {0, 1}, {1, 1}},
	}
}

func newQuery(index ports.VectorIndex, llm ports.LLMService) *QueryUseCase {
	retriever := NewRetriever(&mockEmbedder{}, index)
	return NewQueryUseCase(retriever, llm, nil, 5)
}

func TestAsk_EmptyQuery(t *testing.T) {
	uc := newQuery(populatedIndex(), &mockLLM{response: "unused"})

	res, err := uc.Ask(context.Background(), "   ")

	require.NoError(t, err)
	assert.Empty(t, res.Answer)
	assert.Zero(t, res.Confidence)
	assert.Empty(t, res.Sources)
}

func TestAsk_IndexNotFoundPropagates(t *testing.T) {
	uc := newQuery(&mockIndex{}, &mockLLM{response: "unused"})

	_, err := uc.Ask(context.Background(), "what is an error budget?")

	assert.ErrorIs(t, err, ports.ErrIndexNotFound)
}

func TestAsk_EmptyRetrievalShortCircuits(t *testing.T) {
	llm := &mockLLM{response: "should never be called"}
	uc := newQuery(&emptySearchIndex{}, llm)

	res, err := uc.Ask(context.Background(), "anything")

	require.NoError(t, err)
	assert.Equal(t, guard.NoContext, res.Answer)
	assert.Zero(t, res.Confidence)
	assert.Empty(t, res.Sources)
}

func TestAsk_AnswerWithSourcesAndConfidence(t *testing.T) {
	llm := &mockLLM{response: "Error budgets cap the rollout pace."}
	uc := newQuery(populatedIndex(), llm)

	res, err := uc.Ask(context.Background(), "what caps rollout pace?")

	require.NoError(t, err)
	assert.Equal(t, "Error budgets cap the rollout pace.", res.Answer)
	assert.Greater(t, res.Confidence, 0.0)
	assert.LessOrEqual(t, res.Confidence, 1.0)
	// Two chunks share one PDF page source; dedup keeps first-seen order.
	assert.Equal(t, []string{"sre.pdf (page 12)", "https://example.com/slo"}, res.Sources)
}

func TestAsk_HedgingAnswerGuardedToRefusal(t *testing.T) {
	llm := &mockLLM{response: "Usually the rollout pace is capped."}
	uc := newQuery(populatedIndex(), llm)

	res, err := uc.Ask(context.Background(), "what caps rollout pace?")

	require.NoError(t, err)
	assert.Equal(t, guard.Refusal, res.Answer)
	assert.Zero(t, res.Confidence)
}

func TestAsk_LLMNotConfiguredDegrades(t *testing.T) {
	llm := &mockLLM{err: fmt.Errorf("missing GROQ_API_KEY: %w", ports.ErrLLMNotConfigured)}
	uc := newQuery(populatedIndex(), llm)

	res, err := uc.Ask(context.Background(), "what caps rollout pace?")

	require.NoError(t, err)
	assert.Contains(t, res.Answer, "LLM not configured")
	assert.Zero(t, res.Confidence)
	// Retrieval succeeded, so citations still surface.
	assert.NotEmpty(t, res.Sources)
}

func TestAsk_LLMTransientErrorPropagates(t *testing.T) {
	llm := &mockLLM{err: errors.New("upstream 503")}
	uc := newQuery(populatedIndex(), llm)

	_, err := uc.Ask(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream 503")
}

func TestSimilarityFromDistance(t *testing.T) {
	assert.Equal(t, 1.0, similarityFromDistance(0))
	assert.Equal(t, 0.5, similarityFromDistance(1))
	assert.Equal(t, 1.0, similarityFromDistance(-3), "negative distances clamp to zero")

	prev := 1.1
	for _, d := range []float64{0, 0.5, 1, 2, 10, 1000} {
		s := similarityFromDistance(d)
		assert.Greater(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
		assert.Less(t, s, prev, "similarity must strictly decrease with distance")
		prev = s
	}
}

func TestRetriever_MapsDistancesToSimilarities(t *testing.T) {
	index := populatedIndex()
	retriever := NewRetriever(&mockEmbedder{}, index)

	records, sims, err := retriever.Retrieve(context.Background(), "query", 2)

	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Len(t, sims, 2)
	for _, s := range sims {
		assert.Greater(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}
