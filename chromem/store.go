// Package chromem implements docai.VectorStore using chromem-go, an
// embeddable vector database that persists to a local directory.
package chromem

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/docai/docai"
	"github.com/google/uuid"
	chromemgo "github.com/philippgille/chromem-go"
)

// collectionPrefix namespaces per-source collections inside the database.
const collectionPrefix = "docs_"

var _ docai.VectorStore = (*Store)(nil)

// Store keeps one collection per documentation source so each source can
// be re-indexed or deleted in isolation.
type Store struct {
	mu    sync.Mutex
	db    *chromemgo.DB
	embed chromemgo.EmbeddingFunc
}

// NewStore opens (or creates) the vector database at dir. embed computes
// embeddings for both stored chunks and queries; use OllamaEmbedding for
// the default local setup.
func NewStore(dir string, embed chromemgo.EmbeddingFunc) (*Store, error) {
	db, err := chromemgo.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}
	return &Store{db: db, embed: embed}, nil
}

// OllamaEmbedding returns an embedding function backed by a local Ollama
// model such as nomic-embed-text. baseURL is the server root, e.g.
// "http://localhost:11434".
func OllamaEmbedding(model, baseURL string) chromemgo.EmbeddingFunc {
	return chromemgo.NewEmbeddingFuncOllama(model, strings.TrimRight(baseURL, "/")+"/api")
}

func collectionName(sourceID string) string {
	return collectionPrefix + sourceID
}

// ResetCollection deletes and recreates the collection for a source.
func (s *Store) ResetCollection(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(collectionName(sourceID)); err != nil {
		return fmt.Errorf("reset collection for %s: %w", sourceID, err)
	}
	_, err := s.db.GetOrCreateCollection(collectionName(sourceID), nil, s.embed)
	if err != nil {
		return fmt.Errorf("create collection for %s: %w", sourceID, err)
	}
	return nil
}

// AddChunks embeds and stores chunks in the source's collection.
func (s *Store) AddChunks(ctx context.Context, sourceID string, chunks []*docai.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	col, err := s.collection(sourceID)
	if err != nil {
		return err
	}

	docs := make([]chromemgo.Document, 0, len(chunks))
	for _, chunk := range chunks {
		if err := chunk.Validate(); err != nil {
			return err
		}
		id := chunk.ID
		if id == "" {
			id = uuid.New().String()
		}
		docs = append(docs, chromemgo.Document{
			ID:       id,
			Content:  chunk.Content,
			Metadata: metadataMap(chunk.Metadata),
		})
	}

	return col.AddDocuments(ctx, docs, runtime.NumCPU())
}

// Query returns up to limit chunks ordered by similarity descending.
func (s *Store) Query(ctx context.Context, sourceID string, query string, limit int) ([]docai.SearchResult, error) {
	col, err := s.collection(sourceID)
	if err != nil {
		return nil, err
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	matches, err := col.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection for %s: %w", sourceID, err)
	}

	results := make([]docai.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, docai.SearchResult{
			SourceID:  sourceID,
			Content:   m.Content,
			Score:     m.Similarity,
			FileName:  m.Metadata["fileName"],
			Title:     m.Metadata["title"],
			SourceURL: m.Metadata["sourceUrl"],
		})
	}
	return results, nil
}

// Count returns the number of chunks stored for a source.
func (s *Store) Count(_ context.Context, sourceID string) (int, error) {
	col, err := s.collection(sourceID)
	if err != nil {
		return 0, err
	}
	return col.Count(), nil
}

// DeleteCollection removes a source's collection entirely.
func (s *Store) DeleteCollection(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.DeleteCollection(collectionName(sourceID))
}

// collection returns the source's collection, creating it when absent.
func (s *Store) collection(sourceID string) (*chromemgo.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.db.GetOrCreateCollection(collectionName(sourceID), nil, s.embed)
	if err != nil {
		return nil, fmt.Errorf("open collection for %s: %w", sourceID, err)
	}
	return col, nil
}

// metadataMap flattens chunk metadata into chromem's string map format.
func metadataMap(m docai.ChunkMetadata) map[string]string {
	meta := make(map[string]string)
	if m.FileName != "" {
		meta["fileName"] = m.FileName
	}
	if m.Title != "" {
		meta["title"] = m.Title
	}
	if m.SourceURL != "" {
		meta["sourceUrl"] = m.SourceURL
	}
	meta["position"] = strconv.Itoa(m.Position)
	if len(m.Headings) > 0 {
		var parts []string
		for _, level := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
			if h, ok := m.Headings[level]; ok {
				parts = append(parts, h)
			}
		}
		meta["headings"] = strings.Join(parts, " > ")
	}
	return meta
}
