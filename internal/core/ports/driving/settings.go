package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the stored settings merged over the defaults.
	Get() domain.Settings

	// Set parses value for key and updates the in-memory settings.
	// Nothing is written until Save.
	Set(key, value string) error

	// Unset removes a key so its default applies again.
	Unset(key string) error

	// Save persists the settings.
	Save() error

	// Validate checks the current settings.
	Validate() error

	// Keys returns every settable key, sorted.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig(ctx context.Context) error

	// ValidateLLMConfig pings the configured answer generator.
	ValidateLLMConfig(ctx context.Context) error
}
