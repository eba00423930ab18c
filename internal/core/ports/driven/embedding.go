package driven

import "context"

// EmbeddingService maps text to fixed-length vectors. Chunks and questions
// must go through the same service, and every vector it returns for one
// model has the same length; VectorIndex rejects a length it has not seen
// before once the collection holds vectors.
//
// Adapters: embedding/ollama, embedding/openai (also any OpenAI-compatible
// server) and embedding/hashing, which needs no model.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector length, or 0 until the first response
	// reveals it.
	Dimensions() int

	ModelName() string

	// Ping checks that the provider answers and the model is usable,
	// without embedding anything.
	Ping(ctx context.Context) error

	Close() error
}
