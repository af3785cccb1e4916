package extract

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const maxPageBytes = 10 << 20 // 10 MiB

// WebExtractor implements ports.WebExtractor. Fetched pages are reduced
// to readable text and cached as .txt files under cacheDir; a later
// fetch of the same URL is served from the cache without a request.
type WebExtractor struct {
	client   *http.Client
	cacheDir string
}

// NewWebExtractor creates a web extractor. cacheDir may be "" to
// disable caching.
func NewWebExtractor(cacheDir string) *WebExtractor {
	return &WebExtractor{
		client:   &http.Client{Timeout: 10 * time.Second},
		cacheDir: cacheDir,
	}
}

// Text fetches the URL and returns its readable text with markup,
// scripts and styles stripped and blank lines removed.
func (e *WebExtractor) Text(ctx context.Context, url string) (string, error) {
	if cached, ok := e.readCache(url); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", url, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}

	text := StripHTML(string(body))
	e.writeCache(url, text)
	return text, nil
}

func (e *WebExtractor) readCache(url string) (string, bool) {
	if e.cacheDir == "" {
		return "", false
	}
	data, err := os.ReadFile(filepath.Join(e.cacheDir, URLToFilename(url)))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// writeCache failures are ignored: the cache is a convenience, not part
// of the extraction contract.
func (e *WebExtractor) writeCache(url, text string) {
	if e.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(e.cacheDir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(e.cacheDir, URLToFilename(url)), []byte(text), 0o644)
}

var (
	urlScheme   = regexp.MustCompile(`^https?://`)
	nonWordRuns = regexp.MustCompile(`[^\w]+`)
)

// URLToFilename derives a filesystem-safe cache name from a URL: the
// scheme is dropped and every run of non-word characters becomes a
// single underscore.
func URLToFilename(url string) string {
	name := urlScheme.ReplaceAllString(url, "")
	name = nonWordRuns.ReplaceAllString(name, "_")
	return strings.Trim(name, "_") + ".txt"
}

// Pre-compiled expressions for HTML stripping.
var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag        = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	closeBlockTag = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockTag  = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags        = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
)

// StripHTML reduces an HTML document to readable text. Script, style,
// noscript, head and svg subtrees are removed entirely; block-level
// elements become line breaks; entities are decoded; every line is
// trimmed and blank lines are dropped.
func StripHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	content = openBlockTag.ReplaceAllString(content, "\n")
	content = closeBlockTag.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n")

	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
