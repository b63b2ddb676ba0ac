package docai

import (
	"context"
	"time"
)

// Document represents a scraped or locally authored documentation page.
// The markdown body lives on disk in the source's folder; the document
// index keeps enough metadata to detect re-scrape changes and to resolve
// citations back to files and URLs.
type Document struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"sourceId"`
	FilePath    string    `json:"filePath"`
	SourceURL   string    `json:"sourceUrl"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	Position    int       `json:"position"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.SourceID == "" {
		return Errorf(EINVALID, "document source ID required")
	}
	if d.SourceURL == "" && d.FilePath == "" {
		return Errorf(EINVALID, "document source URL or file path required")
	}
	return nil
}

// DocumentService represents a service for managing the document index.
type DocumentService interface {
	// CreateDocument creates a new document record.
	CreateDocument(ctx context.Context, doc *Document) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if the document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// DeleteDocument permanently removes a document record.
	// Returns ENOTFOUND if the document does not exist.
	DeleteDocument(ctx context.Context, id string) error

	// DeleteDocumentsBySource removes all document records for a source.
	DeleteDocumentsBySource(ctx context.Context, sourceID string) error
}

// SortOrder represents the sort order for document queries.
type SortOrder string

// SortOrder constants for DocumentFilter.
const (
	SortByFetchedAt SortOrder = "fetched_at"
	SortByPosition  SortOrder = "position"
)

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID        *string `json:"id"`
	SourceID  *string `json:"sourceId"`
	SourceURL *string `json:"sourceUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	SortBy SortOrder `json:"sortBy"`
}

// DocumentLoader reads documentation files from a source folder.
// Implementations parse the title and "Source:" URL header that the
// scraper writes at the top of each markdown file.
type DocumentLoader interface {
	LoadDir(ctx context.Context, dir string) ([]*Document, error)
}
