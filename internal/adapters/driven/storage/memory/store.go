// Package memory provides an in-memory implementation of the artifact store
// ports, used by service tests and full-pipeline tests that should not touch
// the filesystem.
package memory

import (
	"context"
	"fmt"
	"sync"

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

// Store keeps every artifact in memory. Reads of artifacts that were never
// written report domain.ErrArtifactNotFound, like the file-based store.
type Store struct {
	mu sync.RWMutex

	Documents []domain.RawDocument

	parses    []domain.ParsedDocument
	hasParses bool

	edus    []domain.EDU
	hasEDUs bool

	index     domain.EmbeddingIndex
	nucleus   driven.Matrix
	satellite driven.Matrix
	hasIndex  bool

	clusters    domain.ClusterPayload
	hasClusters bool

	attachments    domain.AttachPayload
	hasAttachments bool

	snapshot    domain.Snapshot
	hasSnapshot bool
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// ReadDocuments returns the seeded corpus documents.
func (s *Store) ReadDocuments(_ context.Context) ([]domain.RawDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Documents, nil
}

// WriteParses stores the parse records.
func (s *Store) WriteParses(_ context.Context, docs []domain.ParsedDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parses = docs
	s.hasParses = true
	return nil
}

// ReadParses returns the stored parse records.
func (s *Store) ReadParses(_ context.Context) ([]domain.ParsedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasParses {
		return nil, fmt.Errorf("%w: parses", domain.ErrArtifactNotFound)
	}
	return s.parses, nil
}

// WriteEDUs stores the flat EDU table.
func (s *Store) WriteEDUs(_ context.Context, rows []domain.EDU) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edus = rows
	s.hasEDUs = true
	return nil
}

// ReadEDUs returns the stored flat EDU table.
func (s *Store) ReadEDUs(_ context.Context) ([]domain.EDU, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasEDUs {
		return nil, fmt.Errorf("%w: edus", domain.ErrArtifactNotFound)
	}
	return s.edus, nil
}

// WriteEmbeddings stores both matrices and the index record.
func (s *Store) WriteEmbeddings(
	_ context.Context, index domain.EmbeddingIndex, nucleus, satellite driven.Matrix,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = index
	s.nucleus = nucleus
	s.satellite = satellite
	s.hasIndex = true
	return nil
}

// ReadIndex returns the stored index record.
func (s *Store) ReadIndex(_ context.Context) (domain.EmbeddingIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasIndex {
		return domain.EmbeddingIndex{}, fmt.Errorf("%w: embedding index", domain.ErrArtifactNotFound)
	}
	return s.index, nil
}

// ReadMatrix returns the stored matrix for one category.
func (s *Store) ReadMatrix(_ context.Context, category domain.Nuclearity) (driven.Matrix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasIndex {
		return nil, fmt.Errorf("%w: %s matrix", domain.ErrArtifactNotFound, category)
	}
	switch category {
	case domain.NuclearityNucleus:
		return s.nucleus, nil
	case domain.NuclearitySatellite:
		return s.satellite, nil
	default:
		return nil, fmt.Errorf("read matrix: unknown category %q", category)
	}
}

// IndexPath reports a synthetic location for provenance fields.
func (s *Store) IndexPath() string {
	return "memory://embeddings/index.json"
}

// EmbeddingsDir reports a synthetic location for provenance fields.
func (s *Store) EmbeddingsDir() string {
	return "memory://embeddings"
}

// WriteClusters stores the cluster payload.
func (s *Store) WriteClusters(_ context.Context, payload domain.ClusterPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters = payload
	s.hasClusters = true
	return nil
}

// ReadClusters returns the stored cluster payload.
func (s *Store) ReadClusters(_ context.Context) (domain.ClusterPayload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasClusters {
		return domain.ClusterPayload{}, fmt.Errorf("%w: clusters", domain.ErrArtifactNotFound)
	}
	return s.clusters, nil
}

// Path reports a synthetic location for provenance fields.
func (s *Store) Path() string {
	return "memory://clusters/nucleus_clusters.json"
}

// WriteAttachments stores the clusters-with-satellites payload.
func (s *Store) WriteAttachments(_ context.Context, payload domain.AttachPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments = payload
	s.hasAttachments = true
	return nil
}

// ReadAttachments returns the stored clusters-with-satellites payload.
func (s *Store) ReadAttachments(_ context.Context) (domain.AttachPayload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasAttachments {
		return domain.AttachPayload{}, fmt.Errorf("%w: attachments", domain.ErrArtifactNotFound)
	}
	return s.attachments, nil
}

// WriteSnapshot stores the final snapshot.
func (s *Store) WriteSnapshot(_ context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	s.hasSnapshot = true
	return nil
}

// Snapshot returns the stored snapshot and whether one was written.
func (s *Store) Snapshot() (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.hasSnapshot
}
