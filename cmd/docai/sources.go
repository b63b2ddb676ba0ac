package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docai/docai"
)

// Run executes the sources list command.
func (c *SourcesListCmd) Run(deps *Dependencies) error {
	sources, err := deps.Sources.FindSources(deps.Ctx, docai.SourceFilter{
		EnabledOnly: c.Enabled,
		IndexedOnly: c.Indexed,
		Tag:         c.Tag,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	if len(sources) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources found. Use 'docai sources add' to register one.")
		return nil
	}

	for _, s := range sources {
		state := "enabled"
		if !s.Enabled {
			state = "disabled"
		}
		indexed := "not indexed"
		if s.Indexed {
			indexed = "indexed " + s.LastIndexed.Format("2006-01-02")
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  [%s, %s, priority %d]", s.ID, s.Name, state, indexed, s.Priority)
		if len(s.Tags) > 0 {
			fmt.Fprintf(deps.Stdout, "  #%s", strings.Join(s.Tags, " #"))
		}
		fmt.Fprintln(deps.Stdout)
		if s.SourceURL != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", s.SourceURL)
		}
	}
	return nil
}

// Run executes the sources show command.
func (c *SourcesShowCmd) Run(deps *Dependencies) error {
	source, err := deps.Sources.FindSourceByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "ID:          %s\n", source.ID)
	fmt.Fprintf(deps.Stdout, "Name:        %s\n", source.Name)
	fmt.Fprintf(deps.Stdout, "Path:        %s\n", source.Path)
	if source.SourceURL != "" {
		fmt.Fprintf(deps.Stdout, "URL:         %s\n", source.SourceURL)
	}
	if source.Description != "" {
		fmt.Fprintf(deps.Stdout, "Description: %s\n", source.Description)
	}
	if len(source.Tags) > 0 {
		fmt.Fprintf(deps.Stdout, "Tags:        %s\n", strings.Join(source.Tags, ", "))
	}
	fmt.Fprintf(deps.Stdout, "Priority:    %d\n", source.Priority)
	fmt.Fprintf(deps.Stdout, "Enabled:     %t\n", source.Enabled)
	if source.Indexed {
		fmt.Fprintf(deps.Stdout, "Indexed:     %s\n", source.LastIndexed.Format("2006-01-02 15:04"))
	} else {
		fmt.Fprintln(deps.Stdout, "Indexed:     no")
	}
	return nil
}

// Run executes the sources add command.
func (c *SourcesAddCmd) Run(deps *Dependencies) error {
	path := c.Path
	if path == "" {
		path = c.ID
	}

	source := &docai.Source{
		ID:          c.ID,
		Name:        c.Name,
		Path:        path,
		SourceURL:   c.URL,
		Description: c.Description,
		Tags:        c.Tags,
		Priority:    c.Priority,
	}

	if err := deps.Sources.CreateSource(deps.Ctx, source); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added source %q\n", c.ID)
	if c.URL != "" {
		fmt.Fprintf(deps.Stdout, "Run 'docai scrape %s' to fetch its documentation.\n", c.ID)
	}
	return nil
}

// Run executes the sources remove command.
func (c *SourcesRemoveCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stdout, "This removes the source, its document index and its vector collection.\n")
		fmt.Fprintf(deps.Stdout, "Re-run with --force to confirm.\n")
		return nil
	}

	source, err := deps.Sources.FindSourceByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	if err := deps.Vectors.DeleteCollection(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}
	if err := deps.Documents.DeleteDocumentsBySource(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}
	if err := deps.Sources.DeleteSource(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	if c.Purge {
		dir := source.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(deps.DocsDir, dir)
		}
		if err := os.RemoveAll(dir); err != nil {
			fmt.Fprintf(deps.Stderr, "error removing %s: %v\n", dir, err)
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Removed source %q\n", c.ID)
	return nil
}

// Run executes the sources enable command.
func (c *SourcesEnableCmd) Run(deps *Dependencies) error {
	if err := deps.Sources.EnableSource(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Enabled source %q\n", c.ID)
	return nil
}

// Run executes the sources disable command.
func (c *SourcesDisableCmd) Run(deps *Dependencies) error {
	if err := deps.Sources.DisableSource(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Disabled source %q\n", c.ID)
	return nil
}
