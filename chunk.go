package docai

import "context"

// Chunk represents a section of a document sized for embedding and retrieval.
type Chunk struct {
	ID       string        `json:"id"`
	SourceID string        `json:"sourceId"`
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata contains contextual information about a chunk, carried
// into the vector store so search results can cite their origin.
type ChunkMetadata struct {
	// Heading hierarchy at the chunk's position (e.g., {"h1": "API", "h2": "Auth"}).
	Headings map[string]string `json:"headings,omitempty"`

	// FileName of the markdown file the chunk came from.
	FileName string `json:"fileName,omitempty"`

	// Title of the originating document.
	Title string `json:"title,omitempty"`

	// SourceURL of the originating page, for citation.
	SourceURL string `json:"sourceUrl,omitempty"`

	// Position of the chunk within its document.
	Position int `json:"position,omitempty"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.SourceID == "" {
		return Errorf(EINVALID, "chunk source ID required")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	return nil
}

// Chunker splits a document into overlapping chunks.
type Chunker interface {
	Chunk(doc *Document) ([]*Chunk, error)
}

// VectorStore manages per-source vector collections. Each source owns an
// isolated collection; deleting or re-indexing one source never touches
// the chunks of another.
type VectorStore interface {
	// ResetCollection deletes and recreates the collection for a source.
	ResetCollection(ctx context.Context, sourceID string) error

	// AddChunks embeds and stores chunks in the source's collection.
	AddChunks(ctx context.Context, sourceID string, chunks []*Chunk) error

	// Query returns up to limit chunks from the source's collection,
	// ordered by similarity to the query text (descending).
	Query(ctx context.Context, sourceID string, query string, limit int) ([]SearchResult, error)

	// Count returns the number of chunks stored for a source.
	Count(ctx context.Context, sourceID string) (int, error)

	// DeleteCollection removes a source's collection entirely.
	DeleteCollection(ctx context.Context, sourceID string) error
}

// SearchService provides semantic search over the collections of one or
// more documentation sources.
type SearchService interface {
	// Search retrieves the chunks most relevant to the query across the
	// selected sources, merged and ordered by score descending.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// SourceIDs restricts the search to specific sources. Empty means
	// all enabled, indexed sources.
	SourceIDs []string `json:"sourceIds,omitempty"`

	// Limit is the maximum number of results after merging (default 5).
	Limit int `json:"limit,omitempty"`

	// MinScore drops results below this similarity (0-1).
	MinScore float32 `json:"minScore,omitempty"`
}

// SearchResult represents a single retrieval match.
type SearchResult struct {
	SourceID  string  `json:"sourceId"`
	Content   string  `json:"content"`
	Score     float32 `json:"score"`
	FileName  string  `json:"fileName,omitempty"`
	Title     string  `json:"title,omitempty"`
	SourceURL string  `json:"sourceUrl,omitempty"`
}
