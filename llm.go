package docai

import "context"

// Model describes an LLM available in the local runtime.
type Model struct {
	Name       string `json:"name"`
	Size       int64  `json:"size,omitempty"`
	Family     string `json:"family,omitempty"`
	Quantizing string `json:"quantization,omitempty"`
}

// Runtime reports on the local LLM runtime (Ollama).
type Runtime interface {
	// Ping returns nil when the runtime is reachable, EUNAVAILABLE otherwise.
	Ping(ctx context.Context) error

	// Models lists the models installed in the runtime.
	Models(ctx context.Context) ([]Model, error)
}

// Generator produces text completions from the local LLM.
type Generator interface {
	// Generate returns the model's completion for the prompt.
	// The system prompt may be empty.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateRequest configures a single completion call.
type GenerateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	System      string  `json:"system,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
}

// Asker answers natural language questions about documentation.
type Asker interface {
	// Ask retrieves context from the selected sources and synthesizes
	// an answer with citations. Returns ENOTFOUND when no indexed
	// sources are selected and EUNAVAILABLE when the LLM runtime is
	// not running.
	Ask(ctx context.Context, question string, opts SearchOptions) (*Answer, error)
}

// Answer is a synthesized response with its supporting citations.
type Answer struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations,omitempty"`
}

// Citation points a reader back at the retrieved material an answer
// was grounded on.
type Citation struct {
	SourceID  string  `json:"sourceId"`
	FileName  string  `json:"fileName,omitempty"`
	Title     string  `json:"title,omitempty"`
	SourceURL string  `json:"sourceUrl,omitempty"`
	Score     float32 `json:"score"`
	Preview   string  `json:"preview,omitempty"`
}
