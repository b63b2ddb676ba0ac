package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/docai/docai"
	main "github.com/docai/docai/cmd/docai"
	"github.com/docai/docai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the answer with a sources block", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, question string, opts docai.SearchOptions) (*docai.Answer, error) {
				assert.Equal(t, "how do I install xray", question)
				assert.Equal(t, []string{"xray"}, opts.SourceIDs)
				assert.Equal(t, 3, opts.Limit)
				return &docai.Answer{
					Text: "Download the installer and run it.",
					Citations: []docai.Citation{
						{SourceID: "xray", FileName: "install.md", SourceURL: "https://docs.example.com/install", Score: 0.91},
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Settings: &mock.SettingsService{},
			Asker:    asker,
		}

		cmd := &main.AskCmd{
			Question: []string{"how", "do", "I", "install", "xray"},
			Sources:  []string{"xray"},
			Limit:    3,
		}

		err := cmd.Run(deps)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "Download the installer and run it.")
		assert.Contains(t, output, "SOURCES")
		assert.Contains(t, output, "install.md")
		assert.Contains(t, output, "91.0% relevance")
	})

	t.Run("unset flags fall back to config defaults", func(t *testing.T) {
		t.Parallel()

		var gotOpts docai.SearchOptions
		asker := &mock.Asker{
			AskFn: func(_ context.Context, _ string, opts docai.SearchOptions) (*docai.Answer, error) {
				gotOpts = opts
				return &docai.Answer{Text: "ok"}, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Settings: &mock.SettingsService{
				SettingsFn: func() docai.Settings {
					return docai.Settings{SimilarityTopK: 8, MinScore: 0.4}
				},
			},
			Asker: asker,
		}

		err := (&main.AskCmd{Question: []string{"q"}}).Run(deps)
		require.NoError(t, err)

		assert.Equal(t, 8, gotOpts.Limit)
		assert.InDelta(t, 0.4, gotOpts.MinScore, 0.0001)
	})

	t.Run("explicit flags override config defaults", func(t *testing.T) {
		t.Parallel()

		var gotOpts docai.SearchOptions
		asker := &mock.Asker{
			AskFn: func(_ context.Context, _ string, opts docai.SearchOptions) (*docai.Answer, error) {
				gotOpts = opts
				return &docai.Answer{Text: "ok"}, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Settings: &mock.SettingsService{
				SettingsFn: func() docai.Settings {
					return docai.Settings{SimilarityTopK: 8, MinScore: 0.4}
				},
			},
			Asker: asker,
		}

		err := (&main.AskCmd{Question: []string{"q"}, Limit: 2, MinScore: 0.7}).Run(deps)
		require.NoError(t, err)

		assert.Equal(t, 2, gotOpts.Limit)
		assert.InDelta(t, 0.7, gotOpts.MinScore, 0.0001)
	})

	t.Run("--no-sources hides the citations", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, _ string, _ docai.SearchOptions) (*docai.Answer, error) {
				return &docai.Answer{
					Text:      "Answer text.",
					Citations: []docai.Citation{{SourceID: "xray", Score: 0.5}},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Settings: &mock.SettingsService{},
			Asker:    asker,
		}

		cmd := &main.AskCmd{Question: []string{"q"}, NoSources: true}

		err := cmd.Run(deps)
		require.NoError(t, err)

		assert.Contains(t, stdout.String(), "Answer text.")
		assert.NotContains(t, stdout.String(), "SOURCES")
	})

	t.Run("reports ask errors on stderr", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, _ string, _ docai.SearchOptions) (*docai.Answer, error) {
				return nil, docai.Errorf(docai.EUNAVAILABLE, "cannot reach Ollama. Start it with 'ollama serve'.")
			},
		}

		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Settings: &mock.SettingsService{},
			Asker:    asker,
		}

		cmd := &main.AskCmd{Question: []string{"q"}}

		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "ollama serve")
	})
}
