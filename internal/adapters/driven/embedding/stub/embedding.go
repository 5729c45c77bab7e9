// Package stub provides a deterministic, offline embedding service.
// Each text maps to a pseudo-random unit vector seeded by the text's hash,
// so identical inputs always produce identical matrices. Used for tests and
// for running the pipeline without an embedding backend.
package stub

import (
	"context"
	"hash/fnv"
	"math/rand"

	"github.com/parley-labs/edumap-cli/internal/core/ports/driven"
	"github.com/parley-labs/edumap-cli/internal/similarity"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimension is the vector width used when none is configured.
const DefaultDimension = 32

// ModelName is the identifier recorded in the embedding index.
const ModelName = "stub"

// EmbeddingService generates deterministic hash-seeded unit vectors.
type EmbeddingService struct {
	dimension int
}

// NewEmbeddingService creates a stub embedder with the given dimension.
// Non-positive dimensions fall back to DefaultDimension.
func NewEmbeddingService(dimension int) *EmbeddingService {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &EmbeddingService{dimension: dimension}
}

// Encode generates one unit vector per text, seeded by the text content.
func (s *EmbeddingService) Encode(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = s.embedOne(text)
	}
	return vectors, nil
}

func (s *EmbeddingService) embedOne(text string) []float64 {
	h := fnv.New64a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vector := make([]float64, s.dimension)
	for i := range vector {
		vector[i] = rng.NormFloat64()
	}
	return similarity.Normalize(vector)
}

// ModelName returns the embedding model identifier.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Device reports where inference runs.
func (s *EmbeddingService) Device() string {
	return "cpu"
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
