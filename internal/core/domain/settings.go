package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or answer generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI API or any OpenAI-compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderHashing is the offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs on this machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// SupportsEmbedding returns true if the provider can embed text.
func (p AIProvider) SupportsEmbedding() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI || p == AIProviderHashing
}

// SupportsGeneration returns true if the provider can generate answers.
func (p AIProvider) SupportsGeneration() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderHashing:
		return "Feature hashing (offline)"
	default:
		return unknownDescription
	}
}

// IndexBackend selects the vector index implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendSQLite stores vectors in a local SQLite file.
	IndexBackendSQLite IndexBackend = "sqlite"

	// IndexBackendPostgres stores vectors in PostgreSQL with pgvector.
	IndexBackendPostgres IndexBackend = "postgres"

	// IndexBackendMemory keeps vectors in process memory only. It suits a
	// single long-running session such as `mcp serve` over scratch files.
	IndexBackendMemory IndexBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendSQLite, IndexBackendPostgres, IndexBackendMemory:
		return true
	}
	return false
}

// ChunkerSettings holds word-window chunking configuration.
type ChunkerSettings struct {
	// Size is the window length in words.
	Size int

	// Overlap is the number of words shared by consecutive windows.
	Overlap int
}

// Validate checks that windows advance.
func (c ChunkerSettings) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrConfiguration, c.Size)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrConfiguration, c.Overlap)
	}
	if c.Overlap >= c.Size {
		return fmt.Errorf("%w: chunk overlap (%d) must be smaller than chunk size (%d)",
			ErrConfiguration, c.Overlap, c.Size)
	}
	return nil
}

// RetrievalSettings holds question answering configuration.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per question.
	TopK int

	// RelevanceNoteThreshold is the best-relevance value below which a
	// low-confidence note is appended to generated answers.
	RelevanceNoteThreshold float64
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (Ollama, or an OpenAI-compatible server).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size for the hashing provider.
	Dimensions int

	// TimeoutSeconds bounds each embedding call.
	TimeoutSeconds int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbedding() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds answer generator configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Temperature is the sampling temperature.
	Temperature float64

	// MaxTokens caps the generated answer length.
	MaxTokens int

	// TimeoutSeconds bounds each generation call.
	TimeoutSeconds int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.SupportsGeneration() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings selects and configures the vector index.
type IndexSettings struct {
	// Backend is the index implementation.
	Backend IndexBackend

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string
}

// RouterSettings configures the document-intent router.
type RouterSettings struct {
	// CategoriesFile optionally replaces the built-in category table.
	CategoriesFile string
}

// Settings holds all application settings.
type Settings struct {
	Chunker   ChunkerSettings
	Retrieval RetrievalSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Index     IndexSettings
	Router    RouterSettings
}

// DefaultSettings returns settings with sensible defaults.
// Both providers default to a local Ollama instance.
func DefaultSettings() Settings {
	return Settings{
		Chunker: ChunkerSettings{
			Size:    500,
			Overlap: 50,
		},
		Retrieval: RetrievalSettings{
			TopK:                   5,
			RelevanceNoteThreshold: -1.0,
		},
		Embedding: EmbeddingSettings{
			Provider:       AIProviderOllama,
			Model:          DefaultEmbeddingModels()[AIProviderOllama],
			BaseURL:        DefaultOllamaURL,
			Dimensions:     384,
			TimeoutSeconds: 60,
		},
		LLM: LLMSettings{
			Provider:       AIProviderOllama,
			Model:          DefaultLLMModels()[AIProviderOllama],
			BaseURL:        DefaultOllamaURL,
			Temperature:    0.7,
			MaxTokens:      500,
			TimeoutSeconds: 120,
		},
		Index: IndexSettings{
			Backend: IndexBackendSQLite,
		},
	}
}

// DefaultOllamaURL is the address of a stock local Ollama install.
const DefaultOllamaURL = "http://localhost:11434"

// Validate checks the settings for values that cannot work.
// Missing credentials are not reported here; they surface when the
// provider is first used.
func (s Settings) Validate() error {
	if err := s.Chunker.Validate(); err != nil {
		return err
	}
	if s.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrConfiguration, s.Retrieval.TopK)
	}
	if !s.Embedding.Provider.SupportsEmbedding() {
		return fmt.Errorf("%w: provider %q does not support embeddings", ErrConfiguration, s.Embedding.Provider)
	}
	if !s.LLM.Provider.SupportsGeneration() {
		return fmt.Errorf("%w: provider %q does not support answer generation", ErrConfiguration, s.LLM.Provider)
	}
	if !s.Index.Backend.IsValid() {
		return fmt.Errorf("%w: unknown index backend %q", ErrConfiguration, s.Index.Backend)
	}
	if s.Index.Backend == IndexBackendPostgres && s.Index.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres backend requires index.postgres_dsn", ErrConfiguration)
	}
	return nil
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderHashing,
	}
}

// AllLLMProviders returns providers that support answer generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderHashing: "hashing-bow",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
