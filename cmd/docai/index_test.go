package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/docai/docai"
	main "github.com/docai/docai/cmd/docai"
	"github.com/docai/docai/mock"
	"github.com/docai/docai/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires a source ID or --all", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		err := (&main.IndexCmd{}).Run(deps)
		require.Error(t, err)
		assert.Equal(t, docai.EINVALID, docai.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--all")
	})

	t.Run("indexes the named source and reports totals", func(t *testing.T) {
		t.Parallel()

		sources := &mock.SourceService{
			FindSourceByIDFn: func(_ context.Context, id string) (*docai.Source, error) {
				return &docai.Source{ID: id, Name: "XRay Docs", Path: "xray"}, nil
			},
		}

		indexer := &rag.Indexer{
			Sources: sources,
			Loader: &mock.DocumentLoader{
				LoadDirFn: func(_ context.Context, _ string) ([]*docai.Document, error) {
					return []*docai.Document{
						{FilePath: "a.md", Content: "alpha"},
						{FilePath: "b.md", Content: "beta"},
					}, nil
				},
			},
			Chunker: &mock.Chunker{
				ChunkFn: func(doc *docai.Document) ([]*docai.Chunk, error) {
					return []*docai.Chunk{{SourceID: doc.SourceID, Content: doc.Content}}, nil
				},
			},
			Vectors: &mock.VectorStore{
				AddChunksFn: func(_ context.Context, _ string, _ []*docai.Chunk) error {
					return nil
				},
			},
			Runtime: &mock.Runtime{},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Sources: sources,
			Indexer: indexer,
		}

		err := (&main.IndexCmd{ID: "xray"}).Run(deps)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "Indexing XRay Docs (xray)")
		assert.Contains(t, output, "a.md (1 chunks)")
		assert.Contains(t, output, "Indexed 2 documents as 2 chunks")
	})

	t.Run("--all with no enabled sources is a no-op", func(t *testing.T) {
		t.Parallel()

		sources := &mock.SourceService{
			FindSourcesFn: func(_ context.Context, filter docai.SourceFilter) ([]*docai.Source, error) {
				assert.True(t, filter.EnabledOnly)
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Sources: sources,
		}

		err := (&main.IndexCmd{All: true}).Run(deps)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No enabled sources")
	})
}
