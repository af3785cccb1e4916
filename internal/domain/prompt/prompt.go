// Package prompt assembles context-constrained prompts for the language
// model. Pure string composition, no side effects.
package prompt

import (
	"fmt"
	"strings"
)

// Refusal is the literal string the model is instructed to emit when the
// answer is not present in the context. The answer guard and the
// confidence evaluator key off it.
const Refusal = "I don't know based on the provided context."

// FormatContext renders retrieved chunks as labeled, 1-indexed blocks in
// retrieval order.
func FormatContext(chunks []string) string {
	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		parts = append(parts, fmt.Sprintf("[Context Chunk %d]\n%s\n", i+1, chunk))
	}
	return strings.Join(parts, "\n")
}

// Build wraps context and question in the fixed grounded-answering
// template: answer only from the context, refuse when absent, stay
// concise, no outside knowledge.
func Build(context, question string) string {
	return fmt.Sprintf(`
SYSTEM:
You are a question-answering assistant.
Answer ONLY using the provided context.
If the answer is not present, say: %q

CONTEXT:
<<<
%s
>>>

QUESTION:
%s

INSTRUCTIONS:
- Be concise
- Do not use external knowledge
- Base your answer strictly on the context above
`, Refusal, context, question)
}
