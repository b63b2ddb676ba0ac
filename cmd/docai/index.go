package main

import (
	"fmt"

	"github.com/docai/docai"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	if c.ID == "" && !c.All {
		err := docai.Errorf(docai.EINVALID, "specify a source ID or --all")
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	var sources []*docai.Source
	if c.All {
		found, err := deps.Sources.FindSources(deps.Ctx, docai.SourceFilter{EnabledOnly: true})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
			return err
		}
		if len(found) == 0 {
			fmt.Fprintln(deps.Stdout, "No enabled sources. Use 'docai sources add' to register one.")
			return nil
		}
		sources = found
	} else {
		source, err := deps.Sources.FindSourceByID(deps.Ctx, c.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
			return err
		}
		sources = append(sources, source)
	}

	for _, source := range sources {
		if c.All && source.Indexed && !c.Force {
			fmt.Fprintf(deps.Stdout, "Skipping %s (already indexed, use --force to re-index)\n", source.ID)
			continue
		}
		fmt.Fprintf(deps.Stdout, "Indexing %s (%s)\n", source.Name, source.ID)

		result, err := deps.Indexer.IndexSource(deps.Ctx, source, func(file string, chunks int) {
			fmt.Fprintf(deps.Stdout, "  %s (%d chunks)\n", file, chunks)
		})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
			return err
		}

		fmt.Fprintf(deps.Stdout, "  Indexed %d documents as %d chunks\n", result.Documents, result.Chunks)
	}

	return nil
}
