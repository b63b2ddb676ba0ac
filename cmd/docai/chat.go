package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/docai/docai"
)

// Run executes the chat command.
func (c *ChatCmd) Run(deps *Dependencies) error {
	// Fail fast with a pull/serve hint instead of on the first question.
	if err := deps.Runtime.Ping(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, "Ask about the indexed documentation. Type 'exit' to leave,")
	fmt.Fprintln(deps.Stdout, "'sources off' to hide citations, 'sources on' to show them.")

	showSources := true
	scanner := bufio.NewScanner(deps.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(deps.Stdout, "\n> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return scanner.Err()
		case "sources on":
			showSources = true
			fmt.Fprintln(deps.Stdout, "Citations shown.")
			continue
		case "sources off":
			showSources = false
			fmt.Fprintln(deps.Stdout, "Citations hidden.")
			continue
		}

		answer, err := deps.Asker.Ask(deps.Ctx, line, docai.SearchOptions{SourceIDs: c.Sources})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docai.ErrorMessage(err))
			continue
		}

		fmt.Fprintln(deps.Stdout, answer.Text)
		if showSources {
			fmt.Fprint(deps.Stdout, docai.FormatCitations(answer.Citations))
		}
	}

	return scanner.Err()
}
