package main

import (
	"fmt"
	"strings"

	"github.com/docai/docai"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	question := strings.Join(c.Question, " ")

	answer, err := deps.Asker.Ask(deps.Ctx, question, searchOptions(deps, c.Sources, c.Limit, c.MinScore))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Text)
	if !c.NoSources {
		fmt.Fprint(deps.Stdout, docai.FormatCitations(answer.Citations))
	}
	return nil
}
