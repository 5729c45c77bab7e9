package jsonfile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/parley-labs/edumap-cli/internal/core/domain"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driven"
)

// Ensure Store implements every artifact port.
var (
	_ driven.CorpusReader   = (*Store)(nil)
	_ driven.ParseStore     = (*Store)(nil)
	_ driven.EDUStore       = (*Store)(nil)
	_ driven.EmbeddingStore = (*Store)(nil)
	_ driven.ClusterStore   = (*Store)(nil)
	_ driven.AttachStore    = (*Store)(nil)
	_ driven.SnapshotStore  = (*Store)(nil)
)

// DefaultDataDir is the default root for all pipeline artifacts.
const DefaultDataDir = "data"

// Store is a unified file-based artifact store rooted at one data directory.
type Store struct {
	corpusPath    string
	parsesPath    string
	edusPath      string
	embeddingsDir string
	clustersPath  string
	attachPath    string
	snapshotPath  string
}

// Option overrides one artifact location.
type Option func(*Store)

// WithCorpusPath overrides the raw corpus file.
func WithCorpusPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.corpusPath = path
		}
	}
}

// WithParsesPath overrides the parse-stage artifact file.
func WithParsesPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.parsesPath = path
		}
	}
}

// WithEDUsPath overrides the flat EDU table file.
func WithEDUsPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.edusPath = path
		}
	}
}

// WithEmbeddingsDir overrides the embeddings directory.
func WithEmbeddingsDir(dir string) Option {
	return func(s *Store) {
		if dir != "" {
			s.embeddingsDir = dir
		}
	}
}

// WithClustersPath overrides the cluster-stage artifact file.
func WithClustersPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.clustersPath = path
		}
	}
}

// WithAttachPath overrides the clusters-with-satellites artifact file.
func WithAttachPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.attachPath = path
		}
	}
}

// WithSnapshotPath overrides the final snapshot file.
func WithSnapshotPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.snapshotPath = path
		}
	}
}

// NewStore creates a store rooted at dataDir. If dataDir is empty it
// defaults to "./data". Individual artifact locations can be overridden
// with options.
func NewStore(dataDir string, opts ...Option) *Store {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}

	s := &Store{
		corpusPath:    filepath.Join(dataDir, "raw", "docs.jsonl"),
		parsesPath:    filepath.Join(dataDir, "rst", "rst_trees.jsonl"),
		edusPath:      filepath.Join(dataDir, "edus", "edus.jsonl"),
		embeddingsDir: filepath.Join(dataDir, "embeddings"),
		clustersPath:  filepath.Join(dataDir, "clusters", "nucleus_clusters.json"),
		attachPath:    filepath.Join(dataDir, "clusters", "clusters_with_satellites.json"),
		snapshotPath:  filepath.Join(dataDir, "snapshots", "final_bullets.json"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadDocuments returns all corpus documents in file order.
func (s *Store) ReadDocuments(_ context.Context) ([]domain.RawDocument, error) {
	return readLines[domain.RawDocument](s.corpusPath)
}

// WriteParses writes all parse records, atomically.
func (s *Store) WriteParses(_ context.Context, docs []domain.ParsedDocument) error {
	return writeLines(s.parsesPath, docs)
}

// ReadParses returns all parse records in file order.
func (s *Store) ReadParses(_ context.Context) ([]domain.ParsedDocument, error) {
	return readLines[domain.ParsedDocument](s.parsesPath)
}

// WriteEDUs writes the full flat EDU table, atomically.
func (s *Store) WriteEDUs(_ context.Context, rows []domain.EDU) error {
	return writeLines(s.edusPath, rows)
}

// ReadEDUs returns the flat EDU table in file order.
func (s *Store) ReadEDUs(_ context.Context) ([]domain.EDU, error) {
	return readLines[domain.EDU](s.edusPath)
}

// WriteEmbeddings writes both category matrices and the index record.
func (s *Store) WriteEmbeddings(
	_ context.Context, index domain.EmbeddingIndex, nucleus, satellite driven.Matrix,
) error {
	if err := writeLines(s.matrixPath(domain.NuclearityNucleus), nucleus); err != nil {
		return fmt.Errorf("write nucleus matrix: %w", err)
	}
	if err := writeLines(s.matrixPath(domain.NuclearitySatellite), satellite); err != nil {
		return fmt.Errorf("write satellite matrix: %w", err)
	}
	if err := writeDocument(s.IndexPath(), index); err != nil {
		return fmt.Errorf("write embedding index: %w", err)
	}
	return nil
}

// ReadIndex returns the embedding index record.
func (s *Store) ReadIndex(_ context.Context) (domain.EmbeddingIndex, error) {
	return readDocument[domain.EmbeddingIndex](s.IndexPath())
}

// ReadMatrix returns the vector matrix for one nuclearity category.
func (s *Store) ReadMatrix(_ context.Context, category domain.Nuclearity) (driven.Matrix, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("read matrix: unknown category %q", category)
	}
	rows, err := readLines[[]float64](s.matrixPath(category))
	if err != nil {
		return nil, err
	}
	return driven.Matrix(rows), nil
}

// IndexPath reports where the embedding index record lives.
func (s *Store) IndexPath() string {
	return filepath.Join(s.embeddingsDir, "index.json")
}

func (s *Store) matrixPath(category domain.Nuclearity) string {
	return filepath.Join(s.embeddingsDir, string(category)+".vec.jsonl")
}

// WriteClusters writes the cluster-stage payload, atomically.
func (s *Store) WriteClusters(_ context.Context, payload domain.ClusterPayload) error {
	return writeDocument(s.clustersPath, payload)
}

// ReadClusters returns the cluster-stage payload.
func (s *Store) ReadClusters(_ context.Context) (domain.ClusterPayload, error) {
	return readDocument[domain.ClusterPayload](s.clustersPath)
}

// Path reports where the cluster payload lives.
func (s *Store) Path() string {
	return s.clustersPath
}

// EmbeddingsDir reports the embeddings directory, for provenance fields.
func (s *Store) EmbeddingsDir() string {
	return s.embeddingsDir
}

// WriteAttachments writes the clusters-with-satellites payload, atomically.
func (s *Store) WriteAttachments(_ context.Context, payload domain.AttachPayload) error {
	return writeDocument(s.attachPath, payload)
}

// ReadAttachments returns the clusters-with-satellites payload.
func (s *Store) ReadAttachments(_ context.Context) (domain.AttachPayload, error) {
	return readDocument[domain.AttachPayload](s.attachPath)
}

// WriteSnapshot writes the final snapshot, atomically.
func (s *Store) WriteSnapshot(_ context.Context, snapshot domain.Snapshot) error {
	return writeDocument(s.snapshotPath, snapshot)
}
