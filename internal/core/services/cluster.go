package services

import (
	"context"
	"fmt"

	"github.com/parley-labs/edumap-cli/internal/core/domain"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driven"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driving"
	"github.com/parley-labs/edumap-cli/internal/kmeans"
	"github.com/parley-labs/edumap-cli/internal/logger"
)

// Ensure ClusterService implements the interface.
var _ driving.ClusterService = (*ClusterService)(nil)

// ClusterService groups nucleus embeddings into k clusters with seeded
// k-means and persists centroids and membership.
type ClusterService struct {
	embeddings driven.EmbeddingStore
	clusters   driven.ClusterStore
	k          int
	seed       int64
}

// NewClusterService creates a new cluster service.
func NewClusterService(
	embeddings driven.EmbeddingStore,
	clusters driven.ClusterStore,
	k int,
	seed int64,
) *ClusterService {
	return &ClusterService{
		embeddings: embeddings,
		clusters:   clusters,
		k:          k,
		seed:       seed,
	}
}

// Run validates preconditions, clusters the nucleus matrix and writes the
// cluster payload. Given the same inputs and seed the output is identical
// across runs.
func (s *ClusterService) Run(ctx context.Context) error {
	logger.Section("cluster")

	index, err := s.embeddings.ReadIndex(ctx)
	if err != nil {
		return fmt.Errorf("read embedding index: %w", err)
	}
	matrix, err := s.embeddings.ReadMatrix(ctx, domain.NuclearityNucleus)
	if err != nil {
		return fmt.Errorf("read nucleus matrix: %w", err)
	}

	// Preconditions, checked before any clustering work runs.
	if len(matrix) == 0 {
		return fmt.Errorf("%w: no nucleus embeddings available to cluster", domain.ErrEmptyCategory)
	}
	if s.k < 1 {
		return fmt.Errorf("%w: k=%d must be at least 1", domain.ErrInvalidK, s.k)
	}
	if s.k > len(matrix) {
		return fmt.Errorf("%w: k=%d exceeds number of nuclei (%d)", domain.ErrInvalidK, s.k, len(matrix))
	}
	if len(index.Nucleus) != len(matrix) {
		return fmt.Errorf("embedding index lists %d nuclei but matrix has %d rows",
			len(index.Nucleus), len(matrix))
	}

	result, err := kmeans.Run(matrix, s.k, s.seed)
	if err != nil {
		return fmt.Errorf("kmeans: %w", err)
	}
	logger.Debug("kmeans converged after %d iterations, inertia %.6f", result.Iterations, result.Inertia)

	clusters := make([]domain.Cluster, s.k)
	for clusterID := 0; clusterID < s.k; clusterID++ {
		members := []domain.ClusterMember{}
		for idx, label := range result.Labels {
			if label != clusterID {
				continue
			}
			members = append(members, domain.ClusterMember{
				Index:      idx,
				NucleusRef: index.Nucleus[idx],
			})
		}
		clusters[clusterID] = domain.Cluster{
			ClusterID: clusterID,
			Size:      len(members),
			Centroid:  result.Centroids[clusterID],
			Members:   members,
		}
	}

	payload := domain.ClusterPayload{
		Model: domain.ClusterModel{
			Name: "kmeans",
			Params: domain.KMeansParams{
				NClusters:   s.k,
				RandomState: s.seed,
				MaxIter:     kmeans.DefaultMaxIter,
			},
			Inertia: result.Inertia,
		},
		Counts: domain.ClusterCounts{
			Clusters: s.k,
			Nucleus:  len(matrix),
		},
		Clusters:  clusters,
		IndexPath: s.embeddings.IndexPath(),
	}

	if err := s.clusters.WriteClusters(ctx, payload); err != nil {
		return fmt.Errorf("write clusters: %w", err)
	}
	logger.Info("clustered %d nuclei into %d clusters (seed %d)", len(matrix), s.k, s.seed)
	return nil
}
