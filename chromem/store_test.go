package chromem_test

import (
	"context"
	"strings"
	"testing"

	"github.com/docai/docai"
	"github.com/docai/docai/chromem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbed maps texts onto fixed unit vectors by keyword so similarity
// ordering in tests is deterministic without a running embedding model.
func fakeEmbed(_ context.Context, text string) ([]float32, error) {
	switch {
	case strings.Contains(text, "install"):
		return []float32{1, 0, 0}, nil
	case strings.Contains(text, "config"):
		return []float32{0, 1, 0}, nil
	default:
		return []float32{0, 0, 1}, nil
	}
}

func newTestStore(t *testing.T) *chromem.Store {
	t.Helper()
	store, err := chromem.NewStore(t.TempDir(), fakeEmbed)
	require.NoError(t, err)
	return store
}

func chunk(sourceID, content string, meta docai.ChunkMetadata) *docai.Chunk {
	return &docai.Chunk{SourceID: sourceID, Content: content, Metadata: meta}
}

func TestStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("query orders by similarity and carries metadata", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		require.NoError(t, store.AddChunks(ctx, "xray", []*docai.Chunk{
			chunk("xray", "how to install the plugin", docai.ChunkMetadata{
				FileName:  "install.md",
				Title:     "Installation",
				SourceURL: "https://docs.example.com/install",
			}),
			chunk("xray", "config file reference", docai.ChunkMetadata{FileName: "config.md"}),
		}))

		results, err := store.Query(ctx, "xray", "install it", 5)
		require.NoError(t, err)

		require.Len(t, results, 2)
		assert.Contains(t, results[0].Content, "install")
		assert.Equal(t, "install.md", results[0].FileName)
		assert.Equal(t, "Installation", results[0].Title)
		assert.Equal(t, "https://docs.example.com/install", results[0].SourceURL)
		assert.Equal(t, "xray", results[0].SourceID)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("collections are isolated per source", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		require.NoError(t, store.AddChunks(ctx, "a", []*docai.Chunk{chunk("a", "install notes", docai.ChunkMetadata{})}))
		require.NoError(t, store.AddChunks(ctx, "b", []*docai.Chunk{chunk("b", "config notes", docai.ChunkMetadata{})}))

		results, err := store.Query(ctx, "a", "install", 5)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "a", results[0].SourceID)

		nA, err := store.Count(ctx, "a")
		require.NoError(t, err)
		nB, err := store.Count(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, 1, nA)
		assert.Equal(t, 1, nB)
	})

	t.Run("reset empties a collection", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		require.NoError(t, store.AddChunks(ctx, "a", []*docai.Chunk{chunk("a", "old content", docai.ChunkMetadata{})}))
		require.NoError(t, store.ResetCollection(ctx, "a"))

		n, err := store.Count(ctx, "a")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("querying an empty collection returns nothing", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		results, err := store.Query(ctx, "empty", "anything", 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("limit above count is clamped", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		require.NoError(t, store.AddChunks(ctx, "a", []*docai.Chunk{chunk("a", "only one", docai.ChunkMetadata{})}))

		results, err := store.Query(ctx, "a", "only", 50)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("invalid chunk is EINVALID", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		err := store.AddChunks(ctx, "a", []*docai.Chunk{{SourceID: "a"}})
		require.Error(t, err)
		assert.Equal(t, docai.EINVALID, docai.ErrorCode(err))
	})

	t.Run("delete collection removes data", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		require.NoError(t, store.AddChunks(ctx, "a", []*docai.Chunk{chunk("a", "content", docai.ChunkMetadata{})}))
		require.NoError(t, store.DeleteCollection(ctx, "a"))

		n, err := store.Count(ctx, "a")
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
