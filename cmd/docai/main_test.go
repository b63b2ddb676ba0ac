package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	main "github.com/docai/docai/cmd/docai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := main.NewMain()
	m.ConfigPath = filepath.Join(dir, "doc_config.json")
	m.DBPath = filepath.Join(dir, "index.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	// --help should return nil (success) and show commands
	err := m.Run(context.Background(), []string{"--help"}, nil, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	expectedCommands := []string{"scrape", "index", "ask", "sources", "serve"}
	for _, cmd := range expectedCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}

	assert.Contains(t, helpOutput, "Usage:", "Help should have Kong-style Usage prefix")
	assert.Contains(t, helpOutput, "Flags:", "Help should have Kong-style Flags section")
}

func TestMain_Run_NoArgsReturnsError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := main.NewMain()
	m.ConfigPath = filepath.Join(dir, "doc_config.json")
	m.DBPath = filepath.Join(dir, "index.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), nil, nil, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_VersionNeedsNoConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := main.NewMain()
	m.ConfigPath = filepath.Join(dir, "doc_config.json")
	m.DBPath = filepath.Join(dir, "index.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"version"}, nil, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "docai")
}
