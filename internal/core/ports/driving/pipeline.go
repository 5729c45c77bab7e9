package driving

import "context"

// StageRunner is implemented by every pipeline stage service. A stage reads
// the immutable artifacts of the previous stage, computes, and writes a new
// artifact; it either fully completes or fails and writes nothing.
type StageRunner interface {
	// Run executes the stage once.
	Run(ctx context.Context) error
}

// ParseService runs the external parser across the corpus.
type ParseService = StageRunner

// FlattenService converts parse trees into the flat EDU table.
type FlattenService = StageRunner

// EmbedService partitions EDUs by nuclearity and builds the embedding index.
type EmbedService = StageRunner

// ClusterService groups nucleus embeddings via seeded k-means.
type ClusterService = StageRunner

// AttachService assigns satellites to clusters with the two-tier rule.
type AttachService = StageRunner

// AggregateService joins text back on and produces the ranked snapshot.
type AggregateService = StageRunner
