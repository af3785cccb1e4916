// Package entities contains core business entities.
// These are pure domain objects with no external dependencies.
package entities

import "fmt"

// RecordKind tags a record with its ingestion source type.
type RecordKind string

const (
	KindPDF RecordKind = "pdf"
	KindWeb RecordKind = "web"
)

// Record is a chunk of ingested text plus its provenance metadata.
// Records are immutable once written to the index; Source is the
// canonical citation string, computed once at construction.
type Record struct {
	Text   string
	Kind   RecordKind
	File   string // PDF only
	Page   int    // PDF only, 1-based
	URL    string // web only
	Source string
}

// NewPDFRecord creates a record for a chunk extracted from a PDF page.
func NewPDFRecord(file string, page int, text string) Record {
	return Record{
		Text:   text,
		Kind:   KindPDF,
		File:   file,
		Page:   page,
		Source: fmt.Sprintf("%s (page %d)", file, page),
	}
}

// NewWebRecord creates a record for a chunk extracted from a web page.
func NewWebRecord(url, text string) Record {
	return Record{
		Text:   text,
		Kind:   KindWeb,
		URL:    url,
		Source: url,
	}
}

// ResolveSource returns the citation string for the record, deriving it
// from the provenance fields when the explicit Source is missing (e.g.
// records written by an older build). Returns "" when nothing is derivable.
func (r Record) ResolveSource() string {
	if r.Source != "" {
		return r.Source
	}
	switch r.Kind {
	case KindPDF:
		if r.File != "" && r.Page > 0 {
			return fmt.Sprintf("%s (page %d)", r.File, r.Page)
		}
	case KindWeb:
		if r.URL != "" {
			return r.URL
		}
	}
	return ""
}

// Page is one page of extracted PDF text. Pages with no extractable text
// are never emitted.
type Page struct {
	Number int
	Text   string
}

// QueryResult is the stable answer contract shared by all front ends.
// It is ephemeral and never persisted.
type QueryResult struct {
	Answer     string   `json:"answer"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

// IngestResult reports the outcome of one ingest operation.
type IngestResult struct {
	OK          bool   `json:"ok"`
	Message     string `json:"message"`
	ChunksAdded int    `json:"chunks_added"`
	StoredAs    string `json:"stored_as,omitempty"`
}
