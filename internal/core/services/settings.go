package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyChunkSize          = "chunker.size"
	KeyChunkOverlap       = "chunker.overlap"
	KeyTopK               = "retrieval.top_k"
	KeyRelevanceThreshold = "retrieval.relevance_note_threshold"
	KeyEmbedProvider      = "embedding.provider"
	KeyEmbedModel         = "embedding.model"
	KeyEmbedBaseURL       = "embedding.base_url"
	KeyEmbedAPIKey        = "embedding.api_key"
	KeyEmbedDimensions    = "embedding.dimensions"
	KeyEmbedTimeout       = "embedding.timeout_seconds"
	KeyLLMProvider        = "llm.provider"
	KeyLLMModel           = "llm.model"
	KeyLLMBaseURL         = "llm.base_url"
	KeyLLMAPIKey          = "llm.api_key"
	KeyLLMTemperature     = "llm.temperature"
	KeyLLMMaxTokens       = "llm.max_tokens"
	KeyLLMTimeout         = "llm.timeout_seconds"
	KeyIndexBackend       = "index.backend"
	KeyPostgresDSN        = "index.postgres_dsn"
	KeyCategoriesFile     = "router.categories_file"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
)

// settingKinds lists every settable key and how its value is parsed.
var settingKinds = map[string]valueKind{
	KeyChunkSize:          kindInt,
	KeyChunkOverlap:       kindInt,
	KeyTopK:               kindInt,
	KeyRelevanceThreshold: kindFloat,
	KeyEmbedProvider:      kindString,
	KeyEmbedModel:         kindString,
	KeyEmbedBaseURL:       kindString,
	KeyEmbedAPIKey:        kindString,
	KeyEmbedDimensions:    kindInt,
	KeyEmbedTimeout:       kindInt,
	KeyLLMProvider:        kindString,
	KeyLLMModel:           kindString,
	KeyLLMBaseURL:         kindString,
	KeyLLMAPIKey:          kindString,
	KeyLLMTemperature:     kindFloat,
	KeyLLMMaxTokens:       kindInt,
	KeyLLMTimeout:         kindInt,
	KeyIndexBackend:       kindString,
	KeyPostgresDSN:        kindString,
	KeyCategoriesFile:     kindString,
}

// SettingsService reads typed settings from a ConfigStore, merged over
// domain.DefaultSettings. Overlays (environment overrides) are applied on
// every Get and are never saved.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	overlays    []func(*domain.Settings)
}

// NewSettingsService creates a new settings service.
// aiValidator is optional (can be nil).
func NewSettingsService(
	configStore driven.ConfigStore,
	aiValidator driven.AIConfigValidator,
	overlays ...func(*domain.Settings),
) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		overlays:    overlays,
	}
}

// Get returns the stored settings merged over the defaults.
// Invalid stored values fall back to their defaults.
func (s *SettingsService) Get() domain.Settings {
	d := domain.DefaultSettings()

	embedProvider := s.getProvider(KeyEmbedProvider, d.Embedding.Provider, domain.AIProvider.SupportsEmbedding)
	llmProvider := s.getProvider(KeyLLMProvider, d.LLM.Provider, domain.AIProvider.SupportsGeneration)

	settings := domain.Settings{
		Chunker: domain.ChunkerSettings{
			Size:    s.getInt(KeyChunkSize, d.Chunker.Size),
			Overlap: s.getInt(KeyChunkOverlap, d.Chunker.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:                   s.getInt(KeyTopK, d.Retrieval.TopK),
			RelevanceNoteThreshold: s.getFloat(KeyRelevanceThreshold, d.Retrieval.RelevanceNoteThreshold),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:       embedProvider,
			Model:          s.getString(KeyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:        s.getString(KeyEmbedBaseURL, defaultBaseURL(embedProvider)),
			APIKey:         s.configStore.GetString(KeyEmbedAPIKey),
			Dimensions:     s.getInt(KeyEmbedDimensions, d.Embedding.Dimensions),
			TimeoutSeconds: s.getInt(KeyEmbedTimeout, d.Embedding.TimeoutSeconds),
		},
		LLM: domain.LLMSettings{
			Provider:       llmProvider,
			Model:          s.getString(KeyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:        s.getString(KeyLLMBaseURL, defaultBaseURL(llmProvider)),
			APIKey:         s.configStore.GetString(KeyLLMAPIKey),
			Temperature:    s.getFloat(KeyLLMTemperature, d.LLM.Temperature),
			MaxTokens:      s.getInt(KeyLLMMaxTokens, d.LLM.MaxTokens),
			TimeoutSeconds: s.getInt(KeyLLMTimeout, d.LLM.TimeoutSeconds),
		},
		Index: domain.IndexSettings{
			Backend:     s.getBackend(d.Index.Backend),
			PostgresDSN: s.configStore.GetString(KeyPostgresDSN),
		},
		Router: domain.RouterSettings{
			CategoriesFile: s.configStore.GetString(KeyCategoriesFile),
		},
	}

	for _, overlay := range s.overlays {
		overlay(&settings)
	}
	return settings
}

// Set parses value for key and stores it in memory. Switching a provider
// clears its model and base URL so the new provider's defaults apply.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidInput, key, value)
		}
		typed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidInput, key, value)
		}
		typed = f
	default:
		typed = value
	}

	switch key {
	case KeyEmbedProvider:
		p := domain.AIProvider(value)
		if !p.SupportsEmbedding() {
			return fmt.Errorf("%w: provider %q does not support embeddings", domain.ErrConfiguration, value)
		}
		current := s.getProvider(KeyEmbedProvider, domain.DefaultSettings().Embedding.Provider,
			domain.AIProvider.SupportsEmbedding)
		s.resetProviderKeys(current, p, KeyEmbedModel, KeyEmbedBaseURL)
	case KeyLLMProvider:
		p := domain.AIProvider(value)
		if !p.SupportsGeneration() {
			return fmt.Errorf("%w: provider %q does not support answer generation", domain.ErrConfiguration, value)
		}
		current := s.getProvider(KeyLLMProvider, domain.DefaultSettings().LLM.Provider,
			domain.AIProvider.SupportsGeneration)
		s.resetProviderKeys(current, p, KeyLLMModel, KeyLLMBaseURL)
	case KeyIndexBackend:
		if !domain.IndexBackend(value).IsValid() {
			return fmt.Errorf("%w: unknown index backend %q", domain.ErrConfiguration, value)
		}
	}

	return s.configStore.Set(key, typed)
}

// Unset removes key so its default applies again.
func (s *SettingsService) Unset(key string) error {
	if _, ok := settingKinds[key]; !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	s.configStore.Delete(key)
	return nil
}

// Save validates and persists the settings.
func (s *SettingsService) Save() error {
	if err := s.Get().Validate(); err != nil {
		return err
	}
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Validate checks the current settings, including provider credentials.
func (s *SettingsService) Validate() error {
	settings := s.Get()
	if err := settings.Validate(); err != nil {
		return err
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: %s embeddings need an API key (%s)",
			domain.ErrConfiguration, settings.Embedding.Provider, KeyEmbedAPIKey)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: %s answers need an API key (%s)",
			domain.ErrConfiguration, settings.LLM.Provider, KeyLLMAPIKey)
	}
	return nil
}

// Keys returns every settable key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings := s.Get()
	return s.aiValidator.ValidateEmbedding(ctx, &settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings := s.Get()
	return s.aiValidator.ValidateLLM(ctx, &settings.LLM)
}

// resetProviderKeys drops keys when the effective provider changes. An
// unset provider counts as its default.
func (s *SettingsService) resetProviderKeys(current, next domain.AIProvider, keys ...string) {
	if current == next {
		return
	}
	for _, k := range keys {
		s.configStore.Delete(k)
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch val.(type) {
	case int, int64:
		return s.configStore.GetInt(key)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch val.(type) {
	case float64, int, int64:
		return s.configStore.GetFloat(key)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getProvider(
	key string, defaultVal domain.AIProvider, supports func(domain.AIProvider) bool,
) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if provider == "" || !supports(provider) {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.IndexBackend) domain.IndexBackend {
	backend := domain.IndexBackend(s.configStore.GetString(KeyIndexBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func defaultBaseURL(p domain.AIProvider) string {
	if p == domain.AIProviderOllama {
		return domain.DefaultOllamaURL
	}
	return ""
}
