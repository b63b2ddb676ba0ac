package rag

import (
	"fmt"
	"strings"

	"github.com/docai/docai"
)

// systemPrompt frames the model as a product support specialist and pins
// the answer structure so responses stay scannable in a terminal.
const systemPrompt = `You are a technical support specialist for product documentation.
Answer questions using ONLY the provided documentation context. If the
context does not contain the answer, say so plainly instead of guessing.

Structure every answer as:

## Summary
One or two sentences with the direct answer.

## Detailed Explanation
The relevant details from the documentation.

## Steps
Numbered steps when the question asks how to do something. Omit this
section otherwise.

## Notes
Caveats, version constraints, or related settings worth knowing. Omit
when there are none.`

// buildPrompt assembles the grounded user prompt: retrieved excerpts
// first, then the question.
func buildPrompt(question string, results []docai.SearchResult) string {
	var b strings.Builder

	b.WriteString("Documentation context:\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "--- Excerpt %d", i+1)
		if r.Title != "" {
			fmt.Fprintf(&b, " (%s)", r.Title)
		}
		b.WriteString(" ---\n")
		b.WriteString(strings.TrimSpace(r.Content))
		b.WriteString("\n\n")
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
