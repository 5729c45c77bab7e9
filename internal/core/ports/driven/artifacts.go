package driven

import (
	"context"

	"github.com/parley-labs/edumap-cli/internal/core/domain"
)

// Matrix is a dense row-major embedding matrix. Row order always matches
// the corresponding descriptor list in the embedding index.
type Matrix [][]float64

// CorpusReader reads the externally-owned raw document corpus.
type CorpusReader interface {
	// ReadDocuments returns all corpus documents in file order.
	ReadDocuments(ctx context.Context) ([]domain.RawDocument, error)
}

// ParseStore persists and reads the parse-stage artifact
// (one tree per document, line-delimited).
type ParseStore interface {
	// WriteParses writes all parse records, atomically.
	WriteParses(ctx context.Context, docs []domain.ParsedDocument) error

	// ReadParses returns all parse records in file order.
	ReadParses(ctx context.Context) ([]domain.ParsedDocument, error)
}

// EDUStore persists and reads the flat EDU table.
type EDUStore interface {
	// WriteEDUs writes the full flat table, atomically.
	WriteEDUs(ctx context.Context, rows []domain.EDU) error

	// ReadEDUs returns the flat table in file order.
	ReadEDUs(ctx context.Context) ([]domain.EDU, error)
}

// EmbeddingStore persists and reads the two vector matrices plus the index
// record binding row positions to EDU descriptors.
type EmbeddingStore interface {
	// WriteEmbeddings writes both matrices and the index, atomically per file.
	WriteEmbeddings(ctx context.Context, index domain.EmbeddingIndex, nucleus, satellite Matrix) error

	// ReadIndex returns the index record.
	ReadIndex(ctx context.Context) (domain.EmbeddingIndex, error)

	// ReadMatrix returns the matrix for one nuclearity category.
	ReadMatrix(ctx context.Context, category domain.Nuclearity) (Matrix, error)

	// IndexPath reports where the index record lives, for provenance fields.
	IndexPath() string

	// EmbeddingsDir reports where the matrices live, for provenance fields.
	EmbeddingsDir() string
}

// ClusterStore persists and reads the cluster-stage artifact.
type ClusterStore interface {
	WriteClusters(ctx context.Context, payload domain.ClusterPayload) error
	ReadClusters(ctx context.Context) (domain.ClusterPayload, error)

	// Path reports where the payload lives, for provenance fields.
	Path() string
}

// AttachStore persists and reads the clusters-with-satellites artifact.
type AttachStore interface {
	WriteAttachments(ctx context.Context, payload domain.AttachPayload) error
	ReadAttachments(ctx context.Context) (domain.AttachPayload, error)
}

// SnapshotStore persists the final aggregate snapshot.
type SnapshotStore interface {
	WriteSnapshot(ctx context.Context, snapshot domain.Snapshot) error
}
