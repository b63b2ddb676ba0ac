package mock

import (
	"context"

	"github.com/docai/docai"
)

var _ docai.Generator = (*Generator)(nil)

// Generator is a mock implementation of docai.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, req docai.GenerateRequest) (string, error)
}

func (g *Generator) Generate(ctx context.Context, req docai.GenerateRequest) (string, error) {
	return g.GenerateFn(ctx, req)
}

var _ docai.Runtime = (*Runtime)(nil)

// Runtime is a mock implementation of docai.Runtime.
type Runtime struct {
	PingFn   func(ctx context.Context) error
	ModelsFn func(ctx context.Context) ([]docai.Model, error)
}

func (r *Runtime) Ping(ctx context.Context) error {
	if r.PingFn == nil {
		return nil
	}
	return r.PingFn(ctx)
}

func (r *Runtime) Models(ctx context.Context) ([]docai.Model, error) {
	return r.ModelsFn(ctx)
}

var _ docai.Asker = (*Asker)(nil)

// Asker is a mock implementation of docai.Asker.
type Asker struct {
	AskFn func(ctx context.Context, question string, opts docai.SearchOptions) (*docai.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, question string, opts docai.SearchOptions) (*docai.Answer, error) {
	return a.AskFn(ctx, question, opts)
}

var _ docai.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of docai.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts docai.SearchOptions) ([]docai.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts docai.SearchOptions) ([]docai.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}

var _ docai.Chunker = (*Chunker)(nil)

// Chunker is a mock implementation of docai.Chunker.
type Chunker struct {
	ChunkFn func(doc *docai.Document) ([]*docai.Chunk, error)
}

func (c *Chunker) Chunk(doc *docai.Document) ([]*docai.Chunk, error) {
	return c.ChunkFn(doc)
}

var _ docai.DocumentLoader = (*DocumentLoader)(nil)

// DocumentLoader is a mock implementation of docai.DocumentLoader.
type DocumentLoader struct {
	LoadDirFn func(ctx context.Context, dir string) ([]*docai.Document, error)
}

func (l *DocumentLoader) LoadDir(ctx context.Context, dir string) ([]*docai.Document, error) {
	return l.LoadDirFn(ctx, dir)
}
