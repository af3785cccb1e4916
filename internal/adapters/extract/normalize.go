// Package extract provides the PDF and web text extractors implementing
// ports.PDFExtractor and ports.WebExtractor.
package extract

import (
	"regexp"
	"strings"
)

var (
	trailingWS    = regexp.MustCompile(`(?m)[ \t]+$`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Normalize canonicalizes extracted text: line endings become LF,
// trailing whitespace is stripped per line, runs of three or more
// newlines collapse to a paragraph break, and the result is trimmed.
func Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = trailingWS.ReplaceAllString(text, "")
	text = multiNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
