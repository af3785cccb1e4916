package vectorindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askcorpus/askcorpus-go/internal/domain/entities"
	"github.com/askcorpus/askcorpus-go/internal/domain/ports"
)

func openTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "vectors", "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestAppendAndSearch_NearestFirst(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	records := []entities.Record{
		entities.NewPDFRecord("a.pdf", 1, "alpha"),
		entities.NewPDFRecord("a.pdf", 2, "beta"),
		entities.NewWebRecord("https://example.com", "gamma"),
	}
	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	require.NoError(t, idx.Append(ctx, records, vectors))

	got, distances, err := idx.Search(ctx, []float32{1, 0, 0}, 2)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Text)
	assert.Equal(t, 0.0, distances[0])
	assert.Less(t, distances[0], distances[1])
}

func TestSearch_NoIndex(t *testing.T) {
	idx := openTestIndex(t)

	_, _, err := idx.Search(context.Background(), []float32{1, 0}, 5)

	assert.ErrorIs(t, err, ports.ErrIndexNotFound)
}

func TestAppend_EmptyIsNoOp(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Append(ctx, nil, nil))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAppend_AccumulatesCounts(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	first := []entities.Record{entities.NewPDFRecord("a.pdf", 1, "one")}
	second := []entities.Record{
		entities.NewPDFRecord("a.pdf", 2, "two"),
		entities.NewPDFRecord("a.pdf", 3, "three"),
	}
	require.NoError(t, idx.Append(ctx, first, [][]float32{{1, 0}}))
	require.NoError(t, idx.Append(ctx, second, [][]float32{{0, 1}, {1, 1}}))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestAppend_RejectsMisalignment(t *testing.T) {
	idx := openTestIndex(t)

	err := idx.Append(context.Background(),
		[]entities.Record{entities.NewPDFRecord("a.pdf", 1, "one")},
		[][]float32{{1, 0}, {0, 1}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "misaligned")
}

func TestAppend_RejectsDimensionMismatch(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Append(ctx,
		[]entities.Record{entities.NewPDFRecord("a.pdf", 1, "one")},
		[][]float32{{1, 0, 0}}))

	err := idx.Append(ctx,
		[]entities.Record{entities.NewPDFRecord("a.pdf", 2, "two")},
		[][]float32{{1, 0}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "failed append must not write partially")
}

func TestSearch_RejectsWrongQueryDimension(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Append(ctx,
		[]entities.Record{entities.NewPDFRecord("a.pdf", 1, "one")},
		[][]float32{{1, 0, 0}}))

	_, _, err := idx.Search(ctx, []float32{1}, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}

func TestAppend_RejectsEmptyText(t *testing.T) {
	idx := openTestIndex(t)

	err := idx.Append(context.Background(),
		[]entities.Record{{Kind: entities.KindWeb, URL: "https://x"}},
		[][]float32{{1}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty text")
}

func TestSearch_RoundTripsProvenance(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Append(ctx,
		[]entities.Record{entities.NewPDFRecord("guide.pdf", 42, "deep content")},
		[][]float32{{0.5, 0.5}}))

	got, _, err := idx.Search(ctx, []float32{0.5, 0.5}, 1)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entities.KindPDF, got[0].Kind)
	assert.Equal(t, "guide.pdf", got[0].File)
	assert.Equal(t, 42, got[0].Page)
	assert.Equal(t, "guide.pdf (page 42)", got[0].Source)
}

func TestClear_ResetsIndex(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Append(ctx,
		[]entities.Record{entities.NewPDFRecord("a.pdf", 1, "one")},
		[][]float32{{1, 0}}))
	require.NoError(t, idx.Clear(ctx))

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, _, err = idx.Search(ctx, []float32{1, 0}, 1)
	assert.ErrorIs(t, err, ports.ErrIndexNotFound)

	// A new corpus may use a different model; the dimension pin resets too.
	require.NoError(t, idx.Append(ctx,
		[]entities.Record{entities.NewPDFRecord("b.pdf", 1, "fresh")},
		[][]float32{{1, 0, 0, 0}}))
}
