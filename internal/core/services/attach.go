package services

import (
	"context"
	"fmt"

	"github.com/parley-labs/edumap-cli/internal/core/domain"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driven"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driving"
	"github.com/parley-labs/edumap-cli/internal/logger"
	"github.com/parley-labs/edumap-cli/internal/similarity"
)

// Ensure AttachService implements the interface.
var _ driving.AttachService = (*AttachService)(nil)

// AttachService assigns every satellite to a cluster: by parent link when
// the satellite's parent is a clustered nucleus, by nearest centroid
// otherwise.
type AttachService struct {
	embeddings driven.EmbeddingStore
	clusters   driven.ClusterStore
	attach     driven.AttachStore
	metric     domain.Metric
}

// NewAttachService creates a new attach service.
func NewAttachService(
	embeddings driven.EmbeddingStore,
	clusters driven.ClusterStore,
	attach driven.AttachStore,
	metric domain.Metric,
) *AttachService {
	return &AttachService{
		embeddings: embeddings,
		clusters:   clusters,
		attach:     attach,
		metric:     metric,
	}
}

// Run attaches all satellites and writes the enriched payload.
func (s *AttachService) Run(ctx context.Context) error {
	logger.Section("attach")

	if !s.metric.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidMetric, s.metric)
	}

	index, err := s.embeddings.ReadIndex(ctx)
	if err != nil {
		return fmt.Errorf("read embedding index: %w", err)
	}
	satelliteVectors, err := s.embeddings.ReadMatrix(ctx, domain.NuclearitySatellite)
	if err != nil {
		return fmt.Errorf("read satellite matrix: %w", err)
	}
	if len(index.Satellite) != len(satelliteVectors) {
		return fmt.Errorf("embedding index lists %d satellites but matrix has %d rows",
			len(index.Satellite), len(satelliteVectors))
	}

	clusterPayload, err := s.clusters.ReadClusters(ctx)
	if err != nil {
		return fmt.Errorf("read clusters: %w", err)
	}

	// nucleus edu id -> cluster id, from cluster membership.
	nucleusToCluster := make(map[string]int)
	attached := make([]domain.AttachedCluster, len(clusterPayload.Clusters))
	centroids := make([][]float64, len(clusterPayload.Clusters))
	for i, cluster := range clusterPayload.Clusters {
		for _, member := range cluster.Members {
			nucleusToCluster[member.EDUID] = cluster.ClusterID
		}
		attached[i] = domain.AttachedCluster{
			Cluster:    cluster,
			Satellites: []domain.SatelliteAssignment{},
		}
		centroids[i] = cluster.Centroid
	}

	if s.metric == domain.MetricCosine {
		centroids = similarity.NormalizeRows(centroids)
		satelliteVectors = similarity.NormalizeRows(satelliteVectors)
	}

	clusterByID := make(map[int]*domain.AttachedCluster, len(attached))
	for i := range attached {
		clusterByID[attached[i].ClusterID] = &attached[i]
	}

	assignments := make([]domain.SatelliteAssignment, 0, len(index.Satellite))
	for idx, ref := range index.Satellite {
		decision, clusterID, err := s.decide(ref, satelliteVectors, idx, centroids, nucleusToCluster)
		if err != nil {
			return err
		}

		record := domain.SatelliteAssignment{
			Index:       idx,
			DocID:       ref.DocID,
			EDUID:       ref.EDUID,
			TopicID:     ref.TopicID,
			ParentEDUID: ref.ParentEDUID,
			Relation:    ref.Relation,
			Span:        ref.Span,
			Attachment:  decision.Method,
			Score:       decision.Score,
			ClusterID:   clusterID,
		}

		target, ok := clusterByID[clusterID]
		if !ok {
			return fmt.Errorf("satellite (%s, %s) attached to unknown cluster %d", ref.DocID, ref.EDUID, clusterID)
		}
		target.Satellites = append(target.Satellites, record)
		assignments = append(assignments, record)
	}

	payload := domain.AttachPayload{
		Metadata: domain.AttachMetadata{
			Embeddings: s.embeddings.EmbeddingsDir(),
			Clusters:   s.clusters.Path(),
			Metric:     s.metric,
		},
		Counts: domain.AttachCounts{
			Clusters:   len(attached),
			Satellites: len(assignments),
		},
		Clusters:    attached,
		Assignments: assignments,
	}

	if err := s.attach.WriteAttachments(ctx, payload); err != nil {
		return fmt.Errorf("write attachments: %w", err)
	}
	logger.Info("attached %d satellites across %d clusters (metric %s)",
		len(assignments), len(attached), s.metric)
	return nil
}

// decide applies the two-tier rule for one satellite and returns the tagged
// attachment plus the winning cluster id.
func (s *AttachService) decide(
	ref domain.SatelliteRef,
	vectors [][]float64,
	idx int,
	centroids [][]float64,
	nucleusToCluster map[string]int,
) (domain.Attachment, int, error) {
	// Tier 1: parent-link attachment.
	if ref.ParentEDUID != nil && *ref.ParentEDUID != "" {
		if clusterID, ok := nucleusToCluster[*ref.ParentEDUID]; ok {
			return domain.ParentAttachment(), clusterID, nil
		}
	}

	// Tier 2: nearest-centroid fallback.
	if len(centroids) == 0 {
		return domain.Attachment{}, 0, fmt.Errorf(
			"%w: satellite (%s, %s) has no resolvable parent", domain.ErrNoClusters, ref.DocID, ref.EDUID)
	}

	vector := vectors[idx]
	best := 0
	bestScore := similarity.Dot(centroids[0], vector)
	for c := 1; c < len(centroids); c++ {
		if score := similarity.Dot(centroids[c], vector); score > bestScore {
			bestScore = score
			best = c
		}
	}
	return domain.NearestAttachment(bestScore), best, nil
}
