package docai

import (
	"context"
	"time"
)

// Source represents a documentation source: a named, independently indexed
// folder of markdown documents that can be toggled on or off for querying.
type Source struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	SourceURL   string    `json:"source_url,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Priority    int       `json:"priority"`
	Enabled     bool      `json:"enabled"`
	Indexed     bool      `json:"indexed"`
	LastIndexed time.Time `json:"last_indexed,omitzero"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Metadata SourceMetadata `json:"metadata"`
}

// SourceMetadata holds descriptive attributes of a source's content.
type SourceMetadata struct {
	Version  string `json:"version,omitempty"`
	Language string `json:"language,omitempty"`
	Format   string `json:"format,omitempty"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.ID == "" {
		return Errorf(EINVALID, "source ID required")
	}
	if s.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	if s.Path == "" {
		return Errorf(EINVALID, "source path required")
	}
	return nil
}

// SourceService manages the registry of documentation sources.
type SourceService interface {
	// CreateSource registers a new source.
	// Returns ECONFLICT if a source with the same ID already exists.
	CreateSource(ctx context.Context, source *Source) error

	// FindSourceByID retrieves a source by ID.
	// Returns ENOTFOUND if the source does not exist.
	FindSourceByID(ctx context.Context, id string) (*Source, error)

	// FindSources retrieves sources matching the filter, ordered by priority.
	FindSources(ctx context.Context, filter SourceFilter) ([]*Source, error)

	// UpdateSource applies a partial update to a source.
	// Returns ENOTFOUND if the source does not exist.
	UpdateSource(ctx context.Context, id string, upd SourceUpdate) (*Source, error)

	// DeleteSource removes a source from the registry.
	// Returns ENOTFOUND if the source does not exist.
	DeleteSource(ctx context.Context, id string) error

	// EnableSource and DisableSource toggle whether the source
	// participates in retrieval. Disabled sources are never searched.
	EnableSource(ctx context.Context, id string) error
	DisableSource(ctx context.Context, id string) error

	// MarkIndexed records a successful indexing run for the source.
	MarkIndexed(ctx context.Context, id string, at time.Time) error
}

// SourceFilter restricts the sources returned by FindSources.
type SourceFilter struct {
	EnabledOnly bool   `json:"enabled_only"`
	IndexedOnly bool   `json:"indexed_only"`
	Tag         string `json:"tag,omitempty"`
}

// SourceUpdate represents fields that can be updated on a source.
type SourceUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Path        *string   `json:"path,omitempty"`
	SourceURL   *string   `json:"source_url,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Priority    *int      `json:"priority,omitempty"`
	Enabled     *bool     `json:"enabled,omitempty"`
}
