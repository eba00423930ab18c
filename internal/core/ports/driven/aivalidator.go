package driven

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// AIConfigValidator checks provider settings by building a client and
// pinging it.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider described by config.
	ValidateEmbedding(ctx context.Context, config *domain.EmbeddingSettings) error

	// ValidateLLM pings the answer generator described by config.
	ValidateLLM(ctx context.Context, config *domain.LLMSettings) error
}
