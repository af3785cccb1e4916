package usecases

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askcorpus/askcorpus-go/internal/domain/chunker"
	"github.com/askcorpus/askcorpus-go/internal/domain/entities"
	"github.com/askcorpus/askcorpus-go/internal/domain/ports"
)

// mockEmbedder implements ports.EmbeddingService for testing.
type mockEmbedder struct {
	embedFn func(text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(text)
	}
	return []float32{float32(len(text)), 0.5, 0.25}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// mockIndex implements ports.VectorIndex with aligned in-memory slices.
type mockIndex struct {
	records []entities.Record
	vectors [][]float32
}

func (m *mockIndex) Append(ctx context.Context, records []entities.Record, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return fmt.Errorf("misaligned append: %d records, %d vectors", len(records), len(vectors))
	}
	m.records = append(m.records, records...)
	m.vectors = append(m.vectors, vectors...)
	return nil
}

func (m *mockIndex) Search(ctx context.Context, vector []float32, topK int) ([]entities.Record, []float64, error) {
	if len(m.records) == 0 {
		return nil, nil, ports.ErrIndexNotFound
	}
	n := topK
	if n > len(m.records) {
		n = len(m.records)
	}
	records := make([]entities.Record, n)
	distances := make([]float64, n)
	copy(records, m.records[:n])
	return records, distances, nil
}

func (m *mockIndex) Count(ctx context.Context) (int, error) { return len(m.records), nil }

func (m *mockIndex) Clear(ctx context.Context) error {
	m.records, m.vectors = nil, nil
	return nil
}

// mockPDF implements ports.PDFExtractor.
type mockPDF struct {
	pages []entities.Page
	err   error
}

func (m *mockPDF) Pages(ctx context.Context, path string) ([]entities.Page, error) {
	return m.pages, m.err
}

// mockWeb implements ports.WebExtractor.
type mockWeb struct {
	text string
	err  error
}

func (m *mockWeb) Text(ctx context.Context, url string) (string, error) {
	return m.text, m.err
}

func tempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644))
	return path
}

func newIngest(pdf ports.PDFExtractor, web ports.WebExtractor, index ports.VectorIndex) *IngestUseCase {
	return NewIngestUseCase(pdf, web, &mockEmbedder{}, index, chunker.New(0, 0), "", "")
}

func TestIngestPDF_BuildsPageRecords(t *testing.T) {
	index := &mockIndex{}
	pdf := &mockPDF{pages: []entities.Page{
		{Number: 1, Text: "First page about reliability."},
		{Number: 2, Text: "Second page about rollbacks."},
	}}
	uc := newIngest(pdf, &mockWeb{}, index)

	res, err := uc.IngestPDF(context.Background(), tempPDF(t))

	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 2, res.ChunksAdded)
	assert.Equal(t, "doc.pdf", res.StoredAs)

	require.Len(t, index.records, 2)
	assert.Equal(t, entities.KindPDF, index.records[0].Kind)
	assert.Equal(t, "doc.pdf (page 1)", index.records[0].Source)
	assert.Equal(t, "doc.pdf (page 2)", index.records[1].Source)
	assert.Len(t, index.vectors, 2)
}

func TestIngestPDF_NoExtractableTextLeavesIndexUntouched(t *testing.T) {
	index := &mockIndex{}
	uc := newIngest(&mockPDF{pages: nil}, &mockWeb{}, index)

	res, err := uc.IngestPDF(context.Background(), tempPDF(t))

	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "No extractable text found in the PDF.", res.Message)
	assert.Zero(t, res.ChunksAdded)
	assert.Empty(t, index.records)
}

func TestIngestPDF_MissingFile(t *testing.T) {
	uc := newIngest(&mockPDF{}, &mockWeb{}, &mockIndex{})

	res, err := uc.IngestPDF(context.Background(), "/nope/missing.pdf")

	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "PDF not found")
}

func TestIngestPDF_WhitespacePagesAddNothing(t *testing.T) {
	index := &mockIndex{}
	uc := newIngest(&mockPDF{pages: []entities.Page{{Number: 1, Text: "   \n  "}}}, &mockWeb{}, index)

	res, err := uc.IngestPDF(context.Background(), tempPDF(t))

	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Zero(t, res.ChunksAdded)
	assert.Empty(t, index.records)
}

func TestIngestPDF_EmbedFailurePropagates(t *testing.T) {
	embedder := &mockEmbedder{embedFn: func(string) ([]float32, error) {
		return nil, errors.New("model offline")
	}}
	uc := NewIngestUseCase(
		&mockPDF{pages: []entities.Page{{Number: 1, Text: "content."}}},
		&mockWeb{}, embedder, &mockIndex{}, chunker.New(0, 0), "", "")

	_, err := uc.IngestPDF(context.Background(), tempPDF(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
}

func TestIngestPDFBytes_StoresAndIngests(t *testing.T) {
	dir := t.TempDir()
	index := &mockIndex{}
	uc := NewIngestUseCase(
		&mockPDF{pages: []entities.Page{{Number: 1, Text: "uploaded content."}}},
		&mockWeb{}, &mockEmbedder{}, index, chunker.New(0, 0), dir, "")

	res, err := uc.IngestPDFBytes(context.Background(), "../sneaky/report", []byte("%PDF stub"))

	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "report.pdf", res.StoredAs)
	assert.FileExists(t, filepath.Join(dir, "report.pdf"))
	assert.Len(t, index.records, 1)
}

func TestIngestURL_RejectsNonHTTP(t *testing.T) {
	uc := newIngest(&mockPDF{}, &mockWeb{}, &mockIndex{})

	res, err := uc.IngestURL(context.Background(), "ftp://example.com/x")

	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "valid http(s) URL")
}

func TestIngestURL_BuildsWebRecords(t *testing.T) {
	index := &mockIndex{}
	uc := newIngest(&mockPDF{}, &mockWeb{text: "Page text worth keeping."}, index)

	res, err := uc.IngestURL(context.Background(), "https://example.com/doc")

	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.ChunksAdded)
	require.Len(t, index.records, 1)
	assert.Equal(t, entities.KindWeb, index.records[0].Kind)
	assert.Equal(t, "https://example.com/doc", index.records[0].Source)
}

func TestIngestURL_EmptyPage(t *testing.T) {
	index := &mockIndex{}
	uc := newIngest(&mockPDF{}, &mockWeb{text: "  \n "}, index)

	res, err := uc.IngestURL(context.Background(), "https://example.com/empty")

	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Empty(t, index.records)
}

func TestClear_EmptiesIndex(t *testing.T) {
	index := &mockIndex{records: []entities.Record{entities.NewWebRecord("u", "t")}, vectors: [][]float32{{1}}}
	uc := newIngest(&mockPDF{}, &mockWeb{}, index)

	require.NoError(t, uc.Clear(context.Background()))
	assert.Empty(t, index.records)
}
