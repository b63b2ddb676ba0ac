// Package chunk splits Markdown documents into overlapping pieces sized
// for embedding and retrieval.
package chunk

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/docai/docai"
)

// Default sizing. Chunks around 1KB keep enough context for retrieval
// while staying well inside embedding model input limits.
const (
	DefaultMaxChars     = 1024
	DefaultOverlapChars = 200
)

var _ docai.Chunker = (*Chunker)(nil)

// Chunker splits documents at paragraph and sentence boundaries, carrying
// the Markdown heading hierarchy into each chunk's metadata.
type Chunker struct {
	maxChars     int
	overlapChars int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithMaxChars sets the chunk size target.
func WithMaxChars(n int) Option {
	return func(c *Chunker) { c.maxChars = n }
}

// WithOverlap sets how many trailing characters repeat at the start of
// the next chunk.
func WithOverlap(n int) Option {
	return func(c *Chunker) { c.overlapChars = n }
}

// NewChunker creates a Chunker with the default sizing.
func NewChunker(opts ...Option) *Chunker {
	c := &Chunker{
		maxChars:     DefaultMaxChars,
		overlapChars: DefaultOverlapChars,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.overlapChars >= c.maxChars {
		c.overlapChars = c.maxChars / 4
	}
	return c
}

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// block is a paragraph or heading with the heading context active at its
// position in the document.
type block struct {
	text      string
	headings  map[string]string
	isHeading bool
}

// Chunk splits the document body into overlapping chunks.
func (c *Chunker) Chunk(doc *docai.Document) ([]*docai.Chunk, error) {
	if doc == nil || strings.TrimSpace(doc.Content) == "" {
		return nil, nil
	}

	blocks := parseBlocks(doc.Content)

	var chunks []*docai.Chunk
	var buf strings.Builder

	// seeded marks how much of the buffer is overlap carried from the
	// previous chunk; a buffer holding only overlap never flushes.
	var seeded int

	// A chunk is labeled with the heading context of its first paragraph,
	// falling back to the last heading when it holds only headings.
	var paraHeadings, lastHeadings map[string]string

	flush := func() {
		text := strings.TrimSpace(buf.String())
		if text == "" || buf.Len() <= seeded {
			return
		}
		headings := paraHeadings
		if headings == nil {
			headings = lastHeadings
		}
		chunks = append(chunks, c.newChunk(doc, len(chunks), text, headings))

		// Seed the next chunk with the tail of this one for continuity.
		buf.Reset()
		paraHeadings = nil
		if c.overlapChars > 0 {
			buf.WriteString(tailSentences(text, c.overlapChars))
		}
		seeded = buf.Len()
	}

	for _, b := range blocks {
		// A single oversized block is split by sentences on its own.
		if len(b.text) > c.maxChars {
			flush()
			for _, part := range c.splitBySentences(b.text) {
				chunks = append(chunks, c.newChunk(doc, len(chunks), part, b.headings))
			}
			buf.Reset()
			seeded = 0
			paraHeadings = nil
			continue
		}

		if buf.Len() > seeded && buf.Len()+len(b.text)+2 > c.maxChars {
			flush()
		}
		if !b.isHeading && paraHeadings == nil {
			paraHeadings = b.headings
		}
		lastHeadings = b.headings
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(b.text)
	}
	flush()

	return chunks, nil
}

func (c *Chunker) newChunk(doc *docai.Document, position int, text string, headings map[string]string) *docai.Chunk {
	return &docai.Chunk{
		ID:       fmt.Sprintf("%s:%d", chunkKey(doc), position),
		SourceID: doc.SourceID,
		Content:  text,
		Metadata: docai.ChunkMetadata{
			Headings:  headings,
			FileName:  doc.FilePath,
			Title:     doc.Title,
			SourceURL: doc.SourceURL,
			Position:  position,
		},
	}
}

func chunkKey(doc *docai.Document) string {
	if doc.ID != "" {
		return doc.ID
	}
	return doc.FilePath
}

// parseBlocks splits content into paragraphs, tracking the heading stack.
// Opening a heading clears deeper levels, so {"h1": "API", "h2": "Auth"}
// drops the h2 entry when a new h1 begins.
func parseBlocks(content string) []block {
	headings := make(map[string]string)
	var blocks []block
	var para []string

	endPara := func() {
		if len(para) == 0 {
			return
		}
		blocks = append(blocks, block{
			text:     strings.Join(para, "\n"),
			headings: copyHeadings(headings),
		})
		para = nil
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			endPara()
			level := len(m[1])
			for l := level; l <= 6; l++ {
				delete(headings, fmt.Sprintf("h%d", l))
			}
			headings[fmt.Sprintf("h%d", level)] = strings.TrimSpace(m[2])
			blocks = append(blocks, block{
				text:      trimmed,
				headings:  copyHeadings(headings),
				isHeading: true,
			})
			continue
		}

		if trimmed == "" {
			endPara()
			continue
		}
		para = append(para, line)
	}
	endPara()

	return blocks
}

func copyHeadings(h map[string]string) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// splitBySentences cuts text into pieces of at most maxChars, preferring
// sentence boundaries and falling back to a hard cut for unbroken runs.
func (c *Chunker) splitBySentences(text string) []string {
	var parts []string
	var buf strings.Builder

	for _, sentence := range splitSentences(text) {
		for len(sentence) > c.maxChars {
			if buf.Len() > 0 {
				parts = append(parts, strings.TrimSpace(buf.String()))
				buf.Reset()
			}
			cut := runeCut(sentence, c.maxChars)
			parts = append(parts, strings.TrimSpace(sentence[:cut]))
			sentence = sentence[cut:]
		}
		if buf.Len()+len(sentence)+1 > c.maxChars && buf.Len() > 0 {
			parts = append(parts, strings.TrimSpace(buf.String()))
			buf.Reset()
			if c.overlapChars > 0 {
				buf.WriteString(tailSentences(parts[len(parts)-1], c.overlapChars))
			}
		}
		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(sentence)
	}
	if s := strings.TrimSpace(buf.String()); s != "" {
		parts = append(parts, s)
	}
	return parts
}

// runeCut returns the largest cut point at most n that does not split a
// multi-byte rune. A limit smaller than the first rune still advances
// past it so hard cuts always make progress.
func runeCut(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	if n == 0 {
		_, n = utf8.DecodeRuneInString(s)
	}
	return n
}

// splitSentences breaks text after terminal punctuation.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		sentences = append(sentences, strings.TrimSpace(text[start:loc[1]]))
		start = loc[1]
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// tailSentences returns whole sentences from the end of text totaling at
// most max characters.
func tailSentences(text string, max int) string {
	sentences := splitSentences(text)
	var tail []string
	total := 0
	for i := len(sentences) - 1; i >= 0; i-- {
		n := len(sentences[i]) + 1
		if total+n > max {
			break
		}
		tail = append([]string{sentences[i]}, tail...)
		total += n
	}
	return strings.Join(tail, " ")
}
