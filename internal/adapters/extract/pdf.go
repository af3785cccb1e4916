package extract

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/askcorpus/askcorpus-go/internal/domain/entities"
)

// PDFExtractor implements ports.PDFExtractor using the pure-Go pdf
// reader. Pages with no extractable text are skipped; page numbers are
// 1-based and keep the numbering of the source document.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Pages returns the non-empty pages of the PDF at path.
func (e *PDFExtractor) Pages(ctx context.Context, path string) ([]entities.Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var pages []entities.Page
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := extractPageText(page)
		if err != nil {
			// Some PDFs have individual pages with malformed content
			// streams; keep the readable pages.
			continue
		}

		text = Normalize(text)
		if text == "" {
			continue
		}
		pages = append(pages, entities.Page{Number: i, Text: text})
	}
	return pages, nil
}

func extractPageText(page pdf.Page) (text string, err error) {
	// The pdf reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading page content: %v", r)
		}
	}()

	return page.GetPlainText(nil)
}
