package driven

import "context"

// LLMService writes the final answer from the grounded prompt. It is
// optional: AskService returns the retrieved context itself when the
// service is nil, unreachable or replies with nothing.
//
// Adapters: llm/openai (plus OpenAI-compatible servers), llm/anthropic and
// llm/ollama.
type LLMService interface {
	// Generate completes a single prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat completes a system + user exchange; the answer path uses this.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	ModelName() string
	Ping(ctx context.Context) error
	Close() error
}

// ModelLister enumerates models installed on a local runtime (Ollama).
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a chat request.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatOptions bound a chat completion. Zero values leave the provider default.
type ChatOptions struct {
	MaxTokens   int
	Temperature float64
}

// GenerateOptions bound a single-prompt completion.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64

	// StopWords end generation when produced.
	StopWords []string
}
