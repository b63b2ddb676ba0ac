package docai

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// previewLen caps citation previews to keep terminal output readable.
const previewLen = 200

// Preview returns a single-line excerpt of content for citation display.
func Preview(content string) string {
	return truncate(strings.Join(strings.Fields(content), " "), previewLen)
}

// truncate shortens s to at most n bytes, backing up so a multi-byte
// rune is never split at the cut point.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// FormatCitations renders citations as a numbered SOURCES block with
// relevance percentages, matching the CLI and chat output style.
func FormatCitations(citations []Citation) string {
	if len(citations) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 70) + "\n")
	sb.WriteString("SOURCES\n")
	sb.WriteString(strings.Repeat("=", 70) + "\n")

	for i, c := range citations {
		name := c.FileName
		if name == "" {
			name = c.Title
		}
		if name == "" {
			name = c.SourceURL
		}
		fmt.Fprintf(&sb, "\n[%d] %s • %.1f%% relevance\n", i+1, name, c.Score*100)
		if c.SourceURL != "" {
			fmt.Fprintf(&sb, "    URL: %s\n", c.SourceURL)
		}
		if c.Preview != "" {
			fmt.Fprintf(&sb, "    \"%s\"\n", c.Preview)
		}
	}

	return sb.String()
}

// FormatSearchResults renders raw retrieval results (direct query mode,
// no LLM synthesis).
func FormatSearchResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No relevant documentation found.\n"
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 70) + "\n")
	sb.WriteString("RELEVANT DOCUMENTATION\n")
	sb.WriteString(strings.Repeat("=", 70) + "\n")

	for i, r := range results {
		name := r.FileName
		if name == "" {
			name = r.SourceURL
		}
		fmt.Fprintf(&sb, "\n[%d] %s • %.1f%% relevance\n", i+1, name, r.Score*100)
		sb.WriteString(strings.Repeat("-", 70) + "\n")
		sb.WriteString(truncate(r.Content, 500) + "\n")
	}

	return sb.String()
}
