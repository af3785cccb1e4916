// ingest.go handles document ingestion into the vector index.
package usecases

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/askcorpus/askcorpus-go/internal/domain/chunker"
	"github.com/askcorpus/askcorpus-go/internal/domain/entities"
	"github.com/askcorpus/askcorpus-go/internal/domain/ports"
)

// IngestUseCase turns PDFs and web pages into chunk records and appends
// them to the vector index. Re-ingesting identical content produces
// duplicate records; there is no dedup guarantee.
type IngestUseCase struct {
	pdf        ports.PDFExtractor
	web        ports.WebExtractor
	embedder   ports.EmbeddingService
	index      ports.VectorIndex
	chunks     *chunker.Chunker
	rawPDFDir  string
	rawTextDir string
}

// NewIngestUseCase creates an IngestUseCase with injected dependencies.
// rawPDFDir stores uploaded PDF bytes; rawTextDir mirrors the combined
// extracted text of each ingested PDF. Either may be "" to disable the
// corresponding cache.
func NewIngestUseCase(
	pdf ports.PDFExtractor,
	web ports.WebExtractor,
	embedder ports.EmbeddingService,
	index ports.VectorIndex,
	chunks *chunker.Chunker,
	rawPDFDir, rawTextDir string,
) *IngestUseCase {
	if chunks == nil {
		chunks = chunker.New(0, 0)
	}
	return &IngestUseCase{
		pdf:        pdf,
		web:        web,
		embedder:   embedder,
		index:      index,
		chunks:     chunks,
		rawPDFDir:  rawPDFDir,
		rawTextDir: rawTextDir,
	}
}

// IngestPDF extracts a PDF page by page, chunks each page and appends
// the resulting records. A PDF with no extractable text is reported as a
// failed ingest and leaves the index untouched.
func (uc *IngestUseCase) IngestPDF(ctx context.Context, path string) (entities.IngestResult, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return entities.IngestResult{Message: fmt.Sprintf("PDF not found: %s", path)}, nil
	}

	pages, err := uc.pdf.Pages(ctx, path)
	if err != nil {
		return entities.IngestResult{}, fmt.Errorf("extracting %s: %w", path, err)
	}
	if len(pages) == 0 {
		return entities.IngestResult{Message: "No extractable text found in the PDF."}, nil
	}

	name := filepath.Base(path)
	uc.mirrorRawText(name, pages)

	var records []entities.Record
	for _, page := range pages {
		for _, chunk := range uc.chunks.Chunk(page.Text) {
			records = append(records, entities.NewPDFRecord(name, page.Number, chunk))
		}
	}

	if err := uc.appendRecords(ctx, records); err != nil {
		return entities.IngestResult{}, err
	}
	return entities.IngestResult{
		OK:          true,
		Message:     fmt.Sprintf("Ingested PDF: %s", name),
		ChunksAdded: len(records),
		StoredAs:    name,
	}, nil
}

// IngestPDFBytes stores an uploaded PDF under the raw-PDF directory and
// ingests it from there.
func (uc *IngestUseCase) IngestPDFBytes(ctx context.Context, filename string, data []byte) (entities.IngestResult, error) {
	if uc.rawPDFDir == "" {
		return entities.IngestResult{}, fmt.Errorf("no raw PDF directory configured")
	}
	if err := os.MkdirAll(uc.rawPDFDir, 0o755); err != nil {
		return entities.IngestResult{}, fmt.Errorf("creating raw PDF dir: %w", err)
	}

	safe := filepath.Base(filename)
	if !strings.HasSuffix(strings.ToLower(safe), ".pdf") {
		safe += ".pdf"
	}
	dest := filepath.Join(uc.rawPDFDir, safe)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return entities.IngestResult{}, fmt.Errorf("storing %s: %w", safe, err)
	}

	return uc.IngestPDF(ctx, dest)
}

// IngestURL fetches a web page, chunks its readable text and appends the
// resulting records.
func (uc *IngestUseCase) IngestURL(ctx context.Context, url string) (entities.IngestResult, error) {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return entities.IngestResult{Message: "Please enter a valid http(s) URL."}, nil
	}

	text, err := uc.web.Text(ctx, url)
	if err != nil {
		return entities.IngestResult{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	if strings.TrimSpace(text) == "" {
		return entities.IngestResult{Message: "No extractable text found on the page."}, nil
	}

	var records []entities.Record
	for _, chunk := range uc.chunks.Chunk(text) {
		records = append(records, entities.NewWebRecord(url, chunk))
	}

	if err := uc.appendRecords(ctx, records); err != nil {
		return entities.IngestResult{}, err
	}
	return entities.IngestResult{
		OK:          true,
		Message:     fmt.Sprintf("Ingested URL: %s", url),
		ChunksAdded: len(records),
		StoredAs:    url,
	}, nil
}

// Clear wipes the index and its records.
func (uc *IngestUseCase) Clear(ctx context.Context) error {
	return uc.index.Clear(ctx)
}

// appendRecords embeds the record texts and appends records and vectors
// to the index in one unit. No-op on empty input.
func (uc *IngestUseCase) appendRecords(ctx context.Context, records []entities.Record) error {
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}

	vectors, err := uc.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(records), err)
	}

	if err := uc.index.Append(ctx, records, vectors); err != nil {
		return fmt.Errorf("appending to index: %w", err)
	}
	return nil
}

// mirrorRawText writes the combined extracted text next to the vectors
// for inspection and re-processing. Failures are ignored: the mirror is
// a convenience, not part of the ingest contract.
func (uc *IngestUseCase) mirrorRawText(pdfName string, pages []entities.Page) {
	if uc.rawTextDir == "" {
		return
	}
	if err := os.MkdirAll(uc.rawTextDir, 0o755); err != nil {
		return
	}

	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	stem := strings.TrimSuffix(pdfName, filepath.Ext(pdfName))
	_ = os.WriteFile(filepath.Join(uc.rawTextDir, stem+".txt"), []byte(strings.Join(texts, "\n\n")), 0o644)
}
