package driven

import "context"

// EmbeddingService generates dense vector embeddings from text.
// This is an external collaborator: the pipeline only relies on the
// batch-encode contract below.
//
// Contract: Encode returns one row per input text, all rows of one
// dimension, each row normalized to unit length. The indexer does not
// re-normalize; normalization is the embedder's responsibility.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Deterministic stub for offline runs and tests
type EmbeddingService interface {
	// Encode generates embeddings for the full batch of texts in one call.
	Encode(ctx context.Context, texts []string) ([][]float64, error)

	// ModelName returns the embedding model identifier.
	ModelName() string

	// Device returns the inference device the embedder runs on (e.g. "cpu").
	Device() string

	// Close releases resources.
	Close() error
}
