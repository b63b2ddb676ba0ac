// Package ollama implements docai.Runtime and docai.Generator against the
// Ollama HTTP API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docai/docai"
)

// DefaultBaseURL is where a locally installed Ollama listens.
const DefaultBaseURL = "http://localhost:11434"

// DefaultGenerateTimeout bounds a single completion call. Large answers
// on CPU-only machines are slow, so this is generous.
const DefaultGenerateTimeout = 120 * time.Second

var (
	_ docai.Runtime   = (*Client)(nil)
	_ docai.Generator = (*Client)(nil)
)

// Client talks to an Ollama server.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout for generation calls.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// NewClient creates a Client for the given base URL, e.g.
// "http://localhost:11434". An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultGenerateTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks that the Ollama server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return docai.Errorf(docai.EUNAVAILABLE, "Ollama is not reachable at %s. Start it with 'ollama serve'.", c.baseURL)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return docai.Errorf(docai.EUNAVAILABLE, "Ollama returned HTTP %d at %s.", resp.StatusCode, c.baseURL)
	}
	return nil
}

type tagsResponse struct {
	Models []struct {
		Name    string `json:"name"`
		Size    int64  `json:"size"`
		Details struct {
			Family            string `json:"family"`
			QuantizationLevel string `json:"quantization_level"`
		} `json:"details"`
	} `json:"models"`
}

// Models lists the models installed in the runtime.
func (c *Client) Models(ctx context.Context) ([]docai.Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, docai.Errorf(docai.EUNAVAILABLE, "Ollama is not reachable at %s.", c.baseURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing models: HTTP %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decoding model list: %w", err)
	}

	models := make([]docai.Model, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, docai.Model{
			Name:       m.Name,
			Size:       m.Size,
			Family:     m.Details.Family,
			Quantizing: m.Details.QuantizationLevel,
		})
	}
	return models, nil
}

type generatePayload struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Generate returns the model's completion for the prompt.
func (c *Client) Generate(ctx context.Context, greq docai.GenerateRequest) (string, error) {
	if greq.Model == "" {
		return "", docai.Errorf(docai.EINVALID, "model name required")
	}

	payload, err := json.Marshal(generatePayload{
		Model:   greq.Model,
		Prompt:  greq.Prompt,
		System:  greq.System,
		Stream:  false,
		Options: generateOptions{Temperature: greq.Temperature},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", docai.Errorf(docai.EUNAVAILABLE, "Ollama is not reachable at %s.", c.baseURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var gen generateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		return "", fmt.Errorf("decoding completion: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if gen.Error != "" {
			if strings.Contains(gen.Error, "not found") {
				return "", docai.Errorf(docai.ENOTFOUND, "model %q is not installed. Pull it with 'ollama pull %s'.", greq.Model, greq.Model)
			}
			return "", fmt.Errorf("generating completion: %s", gen.Error)
		}
		return "", fmt.Errorf("generating completion: HTTP %d", resp.StatusCode)
	}

	return gen.Response, nil
}
