// Package chunker splits normalized text into bounded, overlapping
// segments suitable for embedding. Pure business logic, no external
// dependencies.
package chunker

import "strings"

// Default word bounds. A chunk never exceeds MaxWords except nothing;
// consecutive chunks share an OverlapWords-word tail so answers spanning
// a flush boundary stay retrievable.
const (
	DefaultMaxWords     = 400
	DefaultOverlapWords = 80
)

// Chunker packs paragraphs into word-bounded chunks.
type Chunker struct {
	maxWords     int
	overlapWords int
}

// New creates a Chunker. Non-positive limits fall back to the defaults.
func New(maxWords, overlapWords int) *Chunker {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	if overlapWords <= 0 || overlapWords >= maxWords {
		overlapWords = DefaultOverlapWords
	}
	return &Chunker{maxWords: maxWords, overlapWords: overlapWords}
}

// Chunk splits text into an ordered sequence of chunks. Empty input
// yields no chunks.
func (c *Chunker) Chunk(text string) []string {
	paras := makeParagraphs(text)

	var chunks []string
	var curr []string
	size := 0

	flush := func() {
		if len(curr) > 0 {
			chunks = append(chunks, strings.Join(curr, "\n\n"))
			curr = nil
			size = 0
		}
	}

	for _, p := range paras {
		pSize := countWords(p)

		if pSize > c.maxWords {
			// Oversized paragraph: flush whatever is pending, then emit
			// fixed windows of maxWords words with a sliding stride. The
			// running overlap carry-over does not apply to this branch.
			flush()
			words := strings.Fields(p)
			step := c.maxWords - c.overlapWords
			for i := 0; i < len(words); i += step {
				end := i + c.maxWords
				if end > len(words) {
					end = len(words)
				}
				chunks = append(chunks, strings.Join(words[i:end], " "))
			}
			continue
		}

		if size+pSize <= c.maxWords {
			curr = append(curr, p)
			size += pSize
			continue
		}

		done := strings.Join(curr, "\n\n")
		chunks = append(chunks, done)

		// Seed the next chunk with the tail of the one just flushed.
		tail := c.overlapTail(done)
		curr = []string{tail, p}
		size = countWords(tail) + pSize
	}

	flush()
	return chunks
}

// makeParagraphs splits text on blank lines. If that yields at most one
// paragraph, it falls back to sentence-like segmentation: lines are
// accumulated and flushed whenever one ends with "." or ":".
func makeParagraphs(text string) []string {
	var paras []string
	for _, p := range strings.Split(text, "\n\n") {
		if s := strings.TrimSpace(p); s != "" {
			paras = append(paras, s)
		}
	}
	if len(paras) > 1 {
		return paras
	}

	paras = nil
	var buf []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		buf = append(buf, line)
		if strings.HasSuffix(line, ".") || strings.HasSuffix(line, ":") {
			paras = append(paras, strings.Join(buf, " "))
			buf = nil
		}
	}
	if len(buf) > 0 {
		paras = append(paras, strings.Join(buf, " "))
	}
	return paras
}

// overlapTail returns the last overlapWords words of text, or the whole
// text when shorter. Overlap is counted in words, not characters.
func (c *Chunker) overlapTail(text string) string {
	words := strings.Fields(text)
	if len(words) <= c.overlapWords {
		return text
	}
	return strings.Join(words[len(words)-c.overlapWords:], " ")
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
