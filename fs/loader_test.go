package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docai/docai"
	"github.com/docai/docai/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestDocumentLoader_LoadDir(t *testing.T) {
	t.Parallel()

	loader := fs.NewDocumentLoader()

	t.Run("loads markdown with title and source URL", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "intro.md", "# Introduction\n\nSource: https://docs.example.com/intro\n\n---\n\nBody text.\n")

		docs, err := loader.LoadDir(context.Background(), dir)
		require.NoError(t, err)

		require.Len(t, docs, 1)
		assert.Equal(t, "intro.md", docs[0].FilePath)
		assert.Equal(t, "Introduction", docs[0].Title)
		assert.Equal(t, "https://docs.example.com/intro", docs[0].SourceURL)
		assert.Contains(t, docs[0].Content, "Body text.")
	})

	t.Run("orders by relative path and assigns positions", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "b.md", "# B\n\ncontent")
		writeFile(t, dir, "a.md", "# A\n\ncontent")
		writeFile(t, dir, "sub/c.txt", "plain notes")

		docs, err := loader.LoadDir(context.Background(), dir)
		require.NoError(t, err)

		require.Len(t, docs, 3)
		assert.Equal(t, "a.md", docs[0].FilePath)
		assert.Equal(t, "b.md", docs[1].FilePath)
		assert.Equal(t, filepath.Join("sub", "c.txt"), docs[2].FilePath)
		assert.Equal(t, []int{0, 1, 2}, []int{docs[0].Position, docs[1].Position, docs[2].Position})
	})

	t.Run("skips unsupported and empty files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "doc.md", "# Doc\n\ncontent")
		writeFile(t, dir, "image.png", "binary")
		writeFile(t, dir, "empty.md", "   \n")

		docs, err := loader.LoadDir(context.Background(), dir)
		require.NoError(t, err)

		require.Len(t, docs, 1)
		assert.Equal(t, "doc.md", docs[0].FilePath)
	})

	t.Run("missing folder is ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.Equal(t, docai.ENOTFOUND, docai.ErrorCode(err))
	})
}
