package main

import (
	"fmt"

	"github.com/docai/docai"
	"github.com/docai/docai/crawl"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	settings := deps.Settings.Settings()

	fmt.Fprintf(deps.Stdout, "Ollama at %s: ", settings.LLMHost)
	if err := deps.Runtime.Ping(deps.Ctx); err != nil {
		fmt.Fprintln(deps.Stdout, "unreachable")
		fmt.Fprintf(deps.Stdout, "  %s\n", docai.ErrorMessage(err))
	} else {
		fmt.Fprintln(deps.Stdout, "ok")

		models, err := deps.Runtime.Models(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error listing models: %s\n", docai.ErrorMessage(err))
		} else {
			for _, m := range models {
				fmt.Fprintf(deps.Stdout, "  %s", m.Name)
				if m.Family != "" {
					fmt.Fprintf(deps.Stdout, " (%s)", m.Family)
				}
				if m.Size > 0 {
					fmt.Fprintf(deps.Stdout, " %s", crawl.FormatBytes(int(m.Size)))
				}
				fmt.Fprintln(deps.Stdout)
			}
		}
	}

	fmt.Fprintf(deps.Stdout, "LLM model: %s, embedding model: %s\n", settings.LLMModel, settings.EmbeddingModel)

	sources, err := deps.Sources.FindSources(deps.Ctx, docai.SourceFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	if len(sources) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources registered.")
		return nil
	}

	fmt.Fprintln(deps.Stdout, "Sources:")
	for _, s := range sources {
		fmt.Fprintf(deps.Stdout, "  %s  %s", s.ID, s.Name)
		if !s.Enabled {
			fmt.Fprint(deps.Stdout, "  [disabled]")
		}
		if s.Indexed {
			count, err := deps.Vectors.Count(deps.Ctx, s.ID)
			if err == nil {
				fmt.Fprintf(deps.Stdout, "  %d chunks", count)
			}
			fmt.Fprintf(deps.Stdout, "  indexed %s", s.LastIndexed.Format("2006-01-02"))
		} else {
			fmt.Fprint(deps.Stdout, "  not indexed")
		}
		fmt.Fprintln(deps.Stdout)
	}

	return nil
}
