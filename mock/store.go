package mock

import (
	"context"
	"time"

	"github.com/docai/docai"
)

var _ docai.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of docai.DocumentService.
type DocumentService struct {
	CreateDocumentFn          func(ctx context.Context, doc *docai.Document) error
	FindDocumentByIDFn        func(ctx context.Context, id string) (*docai.Document, error)
	FindDocumentsFn           func(ctx context.Context, filter docai.DocumentFilter) ([]*docai.Document, error)
	DeleteDocumentFn          func(ctx context.Context, id string) error
	DeleteDocumentsBySourceFn func(ctx context.Context, sourceID string) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *docai.Document) error {
	if s.CreateDocumentFn == nil {
		return nil
	}
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*docai.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter docai.DocumentFilter) ([]*docai.Document, error) {
	if s.FindDocumentsFn == nil {
		return nil, nil
	}
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	return s.DeleteDocumentFn(ctx, id)
}

func (s *DocumentService) DeleteDocumentsBySource(ctx context.Context, sourceID string) error {
	if s.DeleteDocumentsBySourceFn == nil {
		return nil
	}
	return s.DeleteDocumentsBySourceFn(ctx, sourceID)
}

var _ docai.SourceService = (*SourceService)(nil)

// SourceService is a mock implementation of docai.SourceService.
type SourceService struct {
	CreateSourceFn   func(ctx context.Context, source *docai.Source) error
	FindSourceByIDFn func(ctx context.Context, id string) (*docai.Source, error)
	FindSourcesFn    func(ctx context.Context, filter docai.SourceFilter) ([]*docai.Source, error)
	UpdateSourceFn   func(ctx context.Context, id string, upd docai.SourceUpdate) (*docai.Source, error)
	DeleteSourceFn   func(ctx context.Context, id string) error
	EnableSourceFn   func(ctx context.Context, id string) error
	DisableSourceFn  func(ctx context.Context, id string) error
	MarkIndexedFn    func(ctx context.Context, id string, at time.Time) error
}

func (s *SourceService) CreateSource(ctx context.Context, source *docai.Source) error {
	return s.CreateSourceFn(ctx, source)
}

func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*docai.Source, error) {
	return s.FindSourceByIDFn(ctx, id)
}

func (s *SourceService) FindSources(ctx context.Context, filter docai.SourceFilter) ([]*docai.Source, error) {
	return s.FindSourcesFn(ctx, filter)
}

func (s *SourceService) UpdateSource(ctx context.Context, id string, upd docai.SourceUpdate) (*docai.Source, error) {
	return s.UpdateSourceFn(ctx, id, upd)
}

func (s *SourceService) DeleteSource(ctx context.Context, id string) error {
	return s.DeleteSourceFn(ctx, id)
}

func (s *SourceService) EnableSource(ctx context.Context, id string) error {
	return s.EnableSourceFn(ctx, id)
}

func (s *SourceService) DisableSource(ctx context.Context, id string) error {
	return s.DisableSourceFn(ctx, id)
}

func (s *SourceService) MarkIndexed(ctx context.Context, id string, at time.Time) error {
	if s.MarkIndexedFn == nil {
		return nil
	}
	return s.MarkIndexedFn(ctx, id, at)
}

var _ docai.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of docai.VectorStore.
type VectorStore struct {
	ResetCollectionFn  func(ctx context.Context, sourceID string) error
	AddChunksFn        func(ctx context.Context, sourceID string, chunks []*docai.Chunk) error
	QueryFn            func(ctx context.Context, sourceID string, query string, limit int) ([]docai.SearchResult, error)
	CountFn            func(ctx context.Context, sourceID string) (int, error)
	DeleteCollectionFn func(ctx context.Context, sourceID string) error
}

func (s *VectorStore) ResetCollection(ctx context.Context, sourceID string) error {
	if s.ResetCollectionFn == nil {
		return nil
	}
	return s.ResetCollectionFn(ctx, sourceID)
}

func (s *VectorStore) AddChunks(ctx context.Context, sourceID string, chunks []*docai.Chunk) error {
	return s.AddChunksFn(ctx, sourceID, chunks)
}

func (s *VectorStore) Query(ctx context.Context, sourceID string, query string, limit int) ([]docai.SearchResult, error) {
	return s.QueryFn(ctx, sourceID, query, limit)
}

func (s *VectorStore) Count(ctx context.Context, sourceID string) (int, error) {
	if s.CountFn == nil {
		return 0, nil
	}
	return s.CountFn(ctx, sourceID)
}

func (s *VectorStore) DeleteCollection(ctx context.Context, sourceID string) error {
	if s.DeleteCollectionFn == nil {
		return nil
	}
	return s.DeleteCollectionFn(ctx, sourceID)
}
