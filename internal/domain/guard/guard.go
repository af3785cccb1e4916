// Package guard post-processes raw model output. It is the last line of
// defense against ungrounded or rambling answers: a pure, total function
// with no external calls that never fails.
package guard

import "strings"

// NoContext is returned when retrieval produced nothing to ground an
// answer on.
const NoContext = "No relevant information found in the knowledge base."

// Refusal replaces empty or hedging answers. It matches the string the
// prompt instructs the model to emit.
const Refusal = "I don't know based on the provided context."

// maxLines bounds the answer length; anything beyond is cut.
const maxLines = 8

// hallucinationMarkers are hedging phrases a grounded answer should not
// need. Their presence is treated as a hallucination signal.
var hallucinationMarkers = []string{
	"generally",
	"in most cases",
	"it is widely known",
	"commonly",
	"usually",
	"often",
	"as we know",
}

// Answer applies the guard decision order, first match wins:
// no context, empty answer, hedging marker, then line-bounded passthrough.
func Answer(answer string, contextPresent bool) string {
	if !contextPresent {
		return NoContext
	}

	if strings.TrimSpace(answer) == "" {
		return Refusal
	}

	lower := strings.ToLower(answer)
	for _, marker := range hallucinationMarkers {
		if strings.Contains(lower, marker) {
			return Refusal
		}
	}

	lines := strings.Split(strings.TrimSpace(answer), "\n")
	if len(lines) > maxLines {
		answer = strings.Join(lines[:maxLines], "\n")
	}
	return strings.TrimSpace(answer)
}
