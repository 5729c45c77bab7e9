package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/parley-labs/edumap-cli/internal/core/domain"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driven"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driving"
	"github.com/parley-labs/edumap-cli/internal/logger"
)

// Ensure AggregateService implements the interface.
var _ driving.AggregateService = (*AggregateService)(nil)

// AggregateService joins source text back onto the cluster structures,
// selects headlines, groups satellites by relation and ranks the clusters.
type AggregateService struct {
	edus      driven.EDUStore
	attach    driven.AttachStore
	snapshots driven.SnapshotStore
}

// NewAggregateService creates a new aggregate service.
func NewAggregateService(
	edus driven.EDUStore,
	attach driven.AttachStore,
	snapshots driven.SnapshotStore,
) *AggregateService {
	return &AggregateService{
		edus:      edus,
		attach:    attach,
		snapshots: snapshots,
	}
}

// Run builds and writes the final snapshot.
func (s *AggregateService) Run(ctx context.Context) error {
	logger.Section("aggregate")

	rows, err := s.edus.ReadEDUs(ctx)
	if err != nil {
		return fmt.Errorf("read flat EDU table: %w", err)
	}
	payload, err := s.attach.ReadAttachments(ctx)
	if err != nil {
		return fmt.Errorf("read attachments: %w", err)
	}

	snapshot := AggregateClusters(rows, payload)

	if err := s.snapshots.WriteSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	logger.Info("aggregated %d clusters (%d nuclei, %d satellites)",
		snapshot.Counts.Clusters, snapshot.Counts.TotalNuclei, snapshot.Counts.TotalSatellites)
	return nil
}

// AggregateClusters turns the clusters-with-satellites payload into the
// final snapshot, using the flat EDU table for text lookups. Clusters are
// ordered by descending (commonality, satellite_count), stable otherwise.
func AggregateClusters(rows []domain.EDU, payload domain.AttachPayload) domain.Snapshot {
	lookup := make(map[domain.EDUKey]domain.EDU, len(rows))
	for _, row := range rows {
		lookup[row.Key()] = row
	}

	clusters := make([]domain.SnapshotCluster, 0, len(payload.Clusters))
	for _, cluster := range payload.Clusters {
		nuclei := make([]domain.NucleusEntry, 0, len(cluster.Members))
		for _, member := range cluster.Members {
			entry := domain.NucleusEntry{
				DocID:    member.DocID,
				EDUID:    member.EDUID,
				Relation: member.Relation,
				IsRoot:   member.IsRoot,
				TopicID:  member.TopicID,
			}
			if source, ok := lookup[domain.EDUKey{DocID: member.DocID, EDUID: member.EDUID}]; ok {
				text := source.Text
				entry.Text = &text
			}
			nuclei = append(nuclei, entry)
		}

		satellitesByRelation := make(map[string][]domain.SatelliteEntry)
		satelliteCount := 0
		for _, sat := range cluster.Satellites {
			entry := domain.SatelliteEntry{
				DocID:      sat.DocID,
				EDUID:      sat.EDUID,
				Attachment: sat.Attachment,
				Score:      sat.Score,
				TopicID:    sat.TopicID,
			}
			if source, ok := lookup[domain.EDUKey{DocID: sat.DocID, EDUID: sat.EDUID}]; ok {
				text := source.Text
				entry.Text = &text
			}

			bucket := domain.RelationUnspecified
			if sat.Relation != nil && *sat.Relation != "" {
				bucket = *sat.Relation
			}
			satellitesByRelation[bucket] = append(satellitesByRelation[bucket], entry)
			satelliteCount++
		}

		clusters = append(clusters, domain.SnapshotCluster{
			ClusterID:            cluster.ClusterID,
			Headline:             selectHeadline(cluster.ClusterID, nuclei),
			Nuclei:               nuclei,
			SatellitesByRelation: satellitesByRelation,
			Commonality:          len(nuclei),
			SatelliteCount:       satelliteCount,
			Centroid:             cluster.Centroid,
		})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].Commonality != clusters[j].Commonality {
			return clusters[i].Commonality > clusters[j].Commonality
		}
		return clusters[i].SatelliteCount > clusters[j].SatelliteCount
	})

	snapshot := domain.Snapshot{
		Counts: domain.SnapshotCounts{
			Clusters: len(clusters),
		},
		Clusters: clusters,
	}
	for _, cluster := range clusters {
		snapshot.Counts.TotalNuclei += cluster.Commonality
		snapshot.Counts.TotalSatellites += cluster.SatelliteCount
	}
	return snapshot
}

// selectHeadline prefers the first root-flagged member with non-empty text,
// then falls back to the first member's text, then reports no headline.
// The fallback can pick a non-representative member when several exist and
// none is root-flagged; that case is logged for inspection.
func selectHeadline(clusterID int, nuclei []domain.NucleusEntry) *string {
	for _, entry := range nuclei {
		if entry.IsRoot && entry.Text != nil && *entry.Text != "" {
			text := *entry.Text
			return &text
		}
	}
	if len(nuclei) > 0 && nuclei[0].Text != nil && *nuclei[0].Text != "" {
		if len(nuclei) > 1 {
			logger.Debug("cluster %d: no root-flagged member with text, headline falls back to first of %d members",
				clusterID, len(nuclei))
		}
		text := *nuclei[0].Text
		return &text
	}
	return nil
}
