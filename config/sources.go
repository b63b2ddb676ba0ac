package config

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/docai/docai"
)

const sourcesKey = "documentation.sources"

var _ docai.SourceService = (*Config)(nil)

// loadSources decodes the source registry from the config tree. The JSON
// round-trip maps viper's generic values onto the domain struct tags.
// Callers must hold mu.
func (c *Config) loadSources() ([]*docai.Source, error) {
	raw := c.v.Get(sourcesKey)
	if raw == nil {
		return nil, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var sources []*docai.Source
	if err := json.Unmarshal(encoded, &sources); err != nil {
		return nil, docai.Errorf(docai.EINTERNAL, "source registry is malformed: %v", err)
	}
	return sources, nil
}

// storeSources writes the registry back and persists the file.
// Callers must hold mu.
func (c *Config) storeSources(sources []*docai.Source) error {
	encoded, err := json.Marshal(sources)
	if err != nil {
		return err
	}
	var generic []any
	if err := json.Unmarshal(encoded, &generic); err != nil {
		return err
	}
	c.v.Set(sourcesKey, generic)
	return c.save()
}

// CreateSource registers a new source. New sources start enabled and
// unindexed; without an explicit priority a new source outranks the
// existing ones.
func (c *Config) CreateSource(_ context.Context, source *docai.Source) error {
	if err := source.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sources, err := c.loadSources()
	if err != nil {
		return err
	}
	for _, existing := range sources {
		if existing.ID == source.ID {
			return docai.Errorf(docai.ECONFLICT, "source %q already exists", source.ID)
		}
	}

	now := time.Now().UTC()
	source.CreatedAt = now
	source.UpdatedAt = now
	source.Indexed = false
	source.Enabled = true
	if source.Priority == 0 {
		source.Priority = len(sources) + 1
	}

	return c.storeSources(append(sources, source))
}

// FindSourceByID retrieves a source by ID.
func (c *Config) FindSourceByID(_ context.Context, id string) (*docai.Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sources, err := c.loadSources()
	if err != nil {
		return nil, err
	}
	for _, src := range sources {
		if src.ID == id {
			return src, nil
		}
	}
	return nil, docai.Errorf(docai.ENOTFOUND, "source %q not found", id)
}

// FindSources retrieves sources matching the filter, highest priority
// first with name as tiebreak.
func (c *Config) FindSources(_ context.Context, filter docai.SourceFilter) ([]*docai.Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sources, err := c.loadSources()
	if err != nil {
		return nil, err
	}

	filtered := make([]*docai.Source, 0, len(sources))
	for _, src := range sources {
		if filter.EnabledOnly && !src.Enabled {
			continue
		}
		if filter.IndexedOnly && !src.Indexed {
			continue
		}
		if filter.Tag != "" && !hasTag(src, filter.Tag) {
			continue
		}
		filtered = append(filtered, src)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Priority != filtered[j].Priority {
			return filtered[i].Priority > filtered[j].Priority
		}
		return filtered[i].Name < filtered[j].Name
	})
	return filtered, nil
}

// UpdateSource applies a partial update to a source.
func (c *Config) UpdateSource(_ context.Context, id string, upd docai.SourceUpdate) (*docai.Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sources, err := c.loadSources()
	if err != nil {
		return nil, err
	}

	src := findByID(sources, id)
	if src == nil {
		return nil, docai.Errorf(docai.ENOTFOUND, "source %q not found", id)
	}

	if upd.Name != nil {
		src.Name = *upd.Name
	}
	if upd.Path != nil {
		src.Path = *upd.Path
	}
	if upd.SourceURL != nil {
		src.SourceURL = *upd.SourceURL
	}
	if upd.Description != nil {
		src.Description = *upd.Description
	}
	if upd.Tags != nil {
		src.Tags = *upd.Tags
	}
	if upd.Priority != nil {
		src.Priority = *upd.Priority
	}
	if upd.Enabled != nil {
		src.Enabled = *upd.Enabled
	}

	if err := src.Validate(); err != nil {
		return nil, err
	}
	src.UpdatedAt = time.Now().UTC()

	if err := c.storeSources(sources); err != nil {
		return nil, err
	}
	return src, nil
}

// DeleteSource removes a source from the registry.
func (c *Config) DeleteSource(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sources, err := c.loadSources()
	if err != nil {
		return err
	}

	kept := sources[:0]
	found := false
	for _, src := range sources {
		if src.ID == id {
			found = true
			continue
		}
		kept = append(kept, src)
	}
	if !found {
		return docai.Errorf(docai.ENOTFOUND, "source %q not found", id)
	}
	return c.storeSources(kept)
}

// EnableSource makes the source participate in retrieval again.
func (c *Config) EnableSource(_ context.Context, id string) error {
	return c.setEnabled(id, true)
}

// DisableSource excludes the source from retrieval without deleting it.
func (c *Config) DisableSource(_ context.Context, id string) error {
	return c.setEnabled(id, false)
}

func (c *Config) setEnabled(id string, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sources, err := c.loadSources()
	if err != nil {
		return err
	}
	src := findByID(sources, id)
	if src == nil {
		return docai.Errorf(docai.ENOTFOUND, "source %q not found", id)
	}
	src.Enabled = enabled
	src.UpdatedAt = time.Now().UTC()
	return c.storeSources(sources)
}

// MarkIndexed records a successful indexing run for the source.
func (c *Config) MarkIndexed(_ context.Context, id string, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sources, err := c.loadSources()
	if err != nil {
		return err
	}
	src := findByID(sources, id)
	if src == nil {
		return docai.Errorf(docai.ENOTFOUND, "source %q not found", id)
	}
	src.Indexed = true
	src.LastIndexed = at.UTC()
	src.UpdatedAt = at.UTC()
	return c.storeSources(sources)
}

func findByID(sources []*docai.Source, id string) *docai.Source {
	for _, src := range sources {
		if src.ID == id {
			return src
		}
	}
	return nil
}

func hasTag(src *docai.Source, tag string) bool {
	for _, t := range src.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
