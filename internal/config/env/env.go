// Package env reads RAGDESK_* environment overrides, optionally seeded
// from .env files. Overrides are applied to settings in memory and are
// never written back to the config file.
package env

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// Overrides holds the values read from the environment. Tags carry the
// full prefixed name and Load passes no prefix to envconfig, so an
// unprefixed DATA_DIR or OPENAI_API_KEY set for another tool is never read.
type Overrides struct {
	OpenAIAPIKey    string `envconfig:"RAGDESK_OPENAI_API_KEY"`
	AnthropicAPIKey string `envconfig:"RAGDESK_ANTHROPIC_API_KEY"`
	OllamaURL       string `envconfig:"RAGDESK_OLLAMA_URL"`
	DataDir         string `envconfig:"RAGDESK_DATA_DIR"`
	PostgresDSN     string `envconfig:"RAGDESK_POSTGRES_DSN"`
	Verbose         bool   `envconfig:"RAGDESK_VERBOSE"`
}

// Load reads .env files (".env" when none are named) and then the
// process environment. Missing .env files are ignored. Variables already
// set in the environment win over .env entries.
func Load(files ...string) (*Overrides, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: load %s: %w", domain.ErrConfiguration, f, err)
		}
	}

	var o Overrides
	if err := envconfig.Process("", &o); err != nil {
		return nil, fmt.Errorf("%w: process environment: %w", domain.ErrConfiguration, err)
	}
	return &o, nil
}

// Apply overlays the overrides onto settings. API keys apply only to the
// provider that uses them.
func (o *Overrides) Apply(s *domain.Settings) {
	if o == nil {
		return
	}

	if o.OpenAIAPIKey != "" {
		if s.Embedding.Provider == domain.AIProviderOpenAI {
			s.Embedding.APIKey = o.OpenAIAPIKey
		}
		if s.LLM.Provider == domain.AIProviderOpenAI {
			s.LLM.APIKey = o.OpenAIAPIKey
		}
	}
	if o.AnthropicAPIKey != "" && s.LLM.Provider == domain.AIProviderAnthropic {
		s.LLM.APIKey = o.AnthropicAPIKey
	}
	if o.OllamaURL != "" {
		if s.Embedding.Provider == domain.AIProviderOllama {
			s.Embedding.BaseURL = o.OllamaURL
		}
		if s.LLM.Provider == domain.AIProviderOllama {
			s.LLM.BaseURL = o.OllamaURL
		}
	}
	if o.PostgresDSN != "" {
		s.Index.PostgresDSN = o.PostgresDSN
	}
}
