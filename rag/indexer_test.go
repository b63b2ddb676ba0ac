package rag_test

import (
	"context"
	"testing"
	"time"

	"github.com/docai/docai"
	"github.com/docai/docai/mock"
	"github.com/docai/docai/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexer_IndexSource(t *testing.T) {
	t.Parallel()

	source := &docai.Source{ID: "xray", Name: "Xray", Path: "xray_cloud", Enabled: true}

	loaderWith := func(docs ...*docai.Document) *mock.DocumentLoader {
		return &mock.DocumentLoader{
			LoadDirFn: func(_ context.Context, _ string) ([]*docai.Document, error) {
				return docs, nil
			},
		}
	}

	oneChunkPer := &mock.Chunker{
		ChunkFn: func(doc *docai.Document) ([]*docai.Chunk, error) {
			return []*docai.Chunk{{SourceID: doc.SourceID, Content: doc.Content}}, nil
		},
	}

	t.Run("resets, chunks, stores and marks indexed", func(t *testing.T) {
		t.Parallel()

		var resetIDs []string
		var added int
		var marked string
		var markedAt time.Time

		ix := &rag.Indexer{
			Sources: &mock.SourceService{
				MarkIndexedFn: func(_ context.Context, id string, at time.Time) error {
					marked, markedAt = id, at
					return nil
				},
			},
			Loader: loaderWith(
				&docai.Document{FilePath: "a.md", Content: "first page"},
				&docai.Document{FilePath: "b.md", Content: "second page"},
			),
			Chunker: oneChunkPer,
			Vectors: &mock.VectorStore{
				ResetCollectionFn: func(_ context.Context, sourceID string) error {
					resetIDs = append(resetIDs, sourceID)
					return nil
				},
				AddChunksFn: func(_ context.Context, sourceID string, chunks []*docai.Chunk) error {
					assert.Equal(t, "xray", sourceID)
					for _, c := range chunks {
						assert.Equal(t, "xray", c.SourceID)
					}
					added += len(chunks)
					return nil
				},
			},
			Runtime:  &mock.Runtime{},
			BasePath: "/data/docs",
		}

		var progressed []string
		result, err := ix.IndexSource(context.Background(), source, func(file string, _ int) {
			progressed = append(progressed, file)
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Documents)
		assert.Equal(t, 2, result.Chunks)
		assert.Equal(t, []string{"xray"}, resetIDs)
		assert.Equal(t, 2, added)
		assert.Equal(t, "xray", marked)
		assert.False(t, markedAt.IsZero())
		assert.Equal(t, []string{"a.md", "b.md"}, progressed)
	})

	t.Run("runtime down fails before loading", func(t *testing.T) {
		t.Parallel()

		loaded := false
		ix := &rag.Indexer{
			Loader: &mock.DocumentLoader{
				LoadDirFn: func(_ context.Context, _ string) ([]*docai.Document, error) {
					loaded = true
					return nil, nil
				},
			},
			Runtime: &mock.Runtime{
				PingFn: func(_ context.Context) error {
					return docai.Errorf(docai.EUNAVAILABLE, "Ollama is not reachable.")
				},
			},
		}

		_, err := ix.IndexSource(context.Background(), source, nil)
		assert.Equal(t, docai.EUNAVAILABLE, docai.ErrorCode(err))
		assert.False(t, loaded)
	})

	t.Run("empty folder is ENOTFOUND and does not reset", func(t *testing.T) {
		t.Parallel()

		reset := false
		ix := &rag.Indexer{
			Loader:  loaderWith(),
			Chunker: oneChunkPer,
			Vectors: &mock.VectorStore{
				ResetCollectionFn: func(_ context.Context, _ string) error {
					reset = true
					return nil
				},
			},
			Runtime: &mock.Runtime{},
		}

		_, err := ix.IndexSource(context.Background(), source, nil)
		assert.Equal(t, docai.ENOTFOUND, docai.ErrorCode(err))
		assert.False(t, reset)
	})

	t.Run("no chunks at all is EINVALID", func(t *testing.T) {
		t.Parallel()

		ix := &rag.Indexer{
			Sources: &mock.SourceService{},
			Loader:  loaderWith(&docai.Document{FilePath: "a.md", Content: " "}),
			Chunker: &mock.Chunker{
				ChunkFn: func(_ *docai.Document) ([]*docai.Chunk, error) { return nil, nil },
			},
			Vectors: &mock.VectorStore{},
			Runtime: &mock.Runtime{},
		}

		_, err := ix.IndexSource(context.Background(), source, nil)
		assert.Equal(t, docai.EINVALID, docai.ErrorCode(err))
	})
}
