package main

import (
	"encoding/json"
	"fmt"

	"github.com/docai/docai"
)

// Run executes the config get command.
func (c *ConfigGetCmd) Run(deps *Dependencies) error {
	value := deps.Settings.Get(c.Key)
	if value == nil {
		err := docai.Errorf(docai.ENOTFOUND, "no value at %q", c.Key)
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	// Nested values print as JSON, scalars as-is.
	switch v := value.(type) {
	case string:
		fmt.Fprintln(deps.Stdout, v)
	default:
		encoded, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, string(encoded))
	}
	return nil
}

// Run executes the config set command.
func (c *ConfigSetCmd) Run(deps *Dependencies) error {
	// "5", "0.25" and "true" become numbers and booleans; anything that
	// fails to parse as JSON is stored as a string.
	var value any
	if err := json.Unmarshal([]byte(c.Value), &value); err != nil {
		value = c.Value
	}

	if err := deps.Settings.Set(c.Key, value); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Set %s = %v\n", c.Key, value)
	return nil
}

// Run executes the config validate command.
func (c *ConfigValidateCmd) Run(deps *Dependencies) error {
	problems := deps.Settings.Validate(deps.Ctx)
	if len(problems) == 0 {
		fmt.Fprintln(deps.Stdout, "Configuration OK")
		return nil
	}

	for _, p := range problems {
		fmt.Fprintf(deps.Stdout, "  - %s\n", p)
	}
	return docai.Errorf(docai.EINVALID, "configuration has %d problem(s)", len(problems))
}

// Run executes the config export command.
func (c *ConfigExportCmd) Run(deps *Dependencies) error {
	if err := deps.Settings.ExportEnv(c.Out); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Out)
	return nil
}

// Run executes the config summary command.
func (c *ConfigSummaryCmd) Run(deps *Dependencies) error {
	summary, err := deps.Settings.Summary(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Configuration version: %s\n", summary.Version)
	if summary.LastUpdated != "" {
		fmt.Fprintf(deps.Stdout, "Last updated:          %s\n", summary.LastUpdated)
	}
	fmt.Fprintf(deps.Stdout, "Execution mode:        %s\n", summary.ExecutionMode)
	fmt.Fprintf(deps.Stdout, "LLM model:             %s\n", summary.LLMModel)
	fmt.Fprintf(deps.Stdout, "Embedding model:       %s\n", summary.EmbeddingModel)
	fmt.Fprintf(deps.Stdout, "Sources:               %d total, %d enabled, %d indexed\n",
		summary.SourcesTotal, summary.SourcesEnabled, summary.SourcesIndexed)
	return nil
}
