package domain

import "errors"

// Domain errors represent business logic failures.
// Adapters wrap their own failures with one of these so callers can
// classify them with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates invalid settings, such as a chunk overlap
	// that is not smaller than the chunk size.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedFormat indicates no extractor handles a file type.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtractionFailure indicates a supported file could not be read.
	ErrExtractionFailure = errors.New("extraction failed")

	// Provider Errors.

	// ErrProviderUnavailable indicates a network or service failure talking
	// to an embedding or generation backend.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrInvalidCredentials indicates the provider rejected the API key.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTimeout indicates a provider call exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Nothing can be ingested or asked without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Index Errors.

	// ErrIndexCorruption indicates the vector index is unreadable or holds
	// inconsistent data.
	ErrIndexCorruption = errors.New("index corruption")

	// ErrDimensionMismatch indicates an embedding whose length differs from
	// the dimension the index was created with. It is always reported
	// together with ErrIndexCorruption.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
