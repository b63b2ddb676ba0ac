package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/docai/docai"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docai.DocumentService = (*DocumentService)(nil)

// DocumentService implements docai.DocumentService using SQLite. The
// markdown body stays on disk; only index metadata is stored here.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// CreateDocument creates a new document record.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *docai.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.FetchedAt.IsZero() {
		doc.FetchedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_id, file_path, source_url, title, content_hash, position, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.SourceID, doc.FilePath, doc.SourceURL, doc.Title, doc.ContentHash,
		doc.Position, doc.FetchedAt.Format(time.RFC3339))

	return err
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*docai.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_id, file_path, source_url, title, content_hash, position, fetched_at
		FROM documents
		WHERE id = ?
	`, id)

	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, docai.Errorf(docai.ENOTFOUND, "document not found")
	}
	return doc, err
}

// FindDocuments retrieves documents matching the filter.
func (s *DocumentService) FindDocuments(ctx context.Context, filter docai.DocumentFilter) ([]*docai.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_id, file_path, source_url, title, content_hash, position, fetched_at FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceID != nil {
		query.WriteString(" AND source_id = ?")
		args = append(args, *filter.SourceID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}

	switch filter.SortBy {
	case docai.SortByFetchedAt:
		query.WriteString(" ORDER BY fetched_at DESC")
	default:
		query.WriteString(" ORDER BY position ASC")
	}

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// OFFSET is only valid after a LIMIT clause; -1 means unbounded.
		query.WriteString(" LIMIT -1")
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*docai.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// DeleteDocument permanently removes a document record.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return docai.Errorf(docai.ENOTFOUND, "document not found")
	}

	return nil
}

// DeleteDocumentsBySource removes all document records for a source.
func (s *DocumentService) DeleteDocumentsBySource(ctx context.Context, sourceID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE source_id = ?", sourceID)
	return err
}

// scanDocument reads one documents row using the given scan function.
func scanDocument(scan func(dest ...any) error) (*docai.Document, error) {
	var doc docai.Document
	var fetchedAt string

	if err := scan(&doc.ID, &doc.SourceID, &doc.FilePath, &doc.SourceURL, &doc.Title,
		&doc.ContentHash, &doc.Position, &fetchedAt); err != nil {
		return nil, err
	}

	var err error
	doc.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
	}

	return &doc, nil
}
