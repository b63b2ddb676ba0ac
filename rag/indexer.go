package rag

import (
	"context"
	"path/filepath"
	"time"

	"github.com/docai/docai"
)

// IndexResult summarizes one indexing run.
type IndexResult struct {
	Documents int
	Chunks    int
}

// IndexProgressFunc receives per-document progress during indexing.
type IndexProgressFunc func(file string, chunks int)

// Indexer builds a source's vector collection from its markdown folder.
type Indexer struct {
	Sources docai.SourceService
	Loader  docai.DocumentLoader
	Chunker docai.Chunker
	Vectors docai.VectorStore
	Runtime docai.Runtime

	// BasePath resolves relative source paths. Absolute source paths are
	// used as-is.
	BasePath string
}

// IndexSource rebuilds the vector collection for a source from the files
// in its folder, then marks the source indexed. The collection is reset
// first so deleted pages disappear from retrieval.
func (ix *Indexer) IndexSource(ctx context.Context, source *docai.Source, progress IndexProgressFunc) (*IndexResult, error) {
	// Embeddings go through the local runtime, so fail fast when it is
	// down rather than after loading everything.
	if err := ix.Runtime.Ping(ctx); err != nil {
		return nil, err
	}

	dir := source.Path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(ix.BasePath, dir)
	}

	docs, err := ix.Loader.LoadDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, docai.Errorf(docai.ENOTFOUND, "no documents found in %s. Scrape the source first.", dir)
	}

	if err := ix.Vectors.ResetCollection(ctx, source.ID); err != nil {
		return nil, err
	}

	result := &IndexResult{Documents: len(docs)}
	for _, doc := range docs {
		doc.SourceID = source.ID

		chunks, err := ix.Chunker.Chunk(doc)
		if err != nil {
			return nil, err
		}
		if len(chunks) == 0 {
			continue
		}
		if err := ix.Vectors.AddChunks(ctx, source.ID, chunks); err != nil {
			return nil, err
		}
		result.Chunks += len(chunks)
		if progress != nil {
			progress(doc.FilePath, len(chunks))
		}
	}

	if result.Chunks == 0 {
		return nil, docai.Errorf(docai.EINVALID, "no indexable content in %s", dir)
	}

	if err := ix.Sources.MarkIndexed(ctx, source.ID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return result, nil
}
