package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-labs/edumap-cli/internal/adapters/driven/storage/memory"
	"github.com/parley-labs/edumap-cli/internal/core/domain"
)

func nucleusMember(index int, docID, eduID string, isRoot bool) domain.ClusterMember {
	return domain.ClusterMember{
		Index: index,
		NucleusRef: domain.NucleusRef{
			DocID:   docID,
			EDUID:   eduID,
			TopicID: "t1",
			IsRoot:  isRoot,
		},
	}
}

func attachedCluster(id int, members ...domain.ClusterMember) domain.AttachedCluster {
	return domain.AttachedCluster{
		Cluster: domain.Cluster{
			ClusterID: id,
			Size:      len(members),
			Centroid:  []float64{float64(id), 0},
			Members:   members,
		},
		Satellites: []domain.SatelliteAssignment{},
	}
}

func TestAggregateClusters_TextJoinAndHeadline(t *testing.T) {
	rows := []domain.EDU{
		{DocID: "d0", EDUID: "a", Text: "root statement", Nuclearity: domain.NuclearityNucleus, IsRoot: true},
		{DocID: "d0", EDUID: "b", Text: "supporting detail", Nuclearity: domain.NuclearitySatellite},
		{DocID: "d1", EDUID: "a", Text: "another nucleus", Nuclearity: domain.NuclearityNucleus},
	}

	cluster := attachedCluster(0,
		nucleusMember(0, "d1", "a", false),
		nucleusMember(1, "d0", "a", true),
	)
	cluster.Satellites = []domain.SatelliteAssignment{
		{
			Index:      0,
			DocID:      "d0",
			EDUID:      "b",
			TopicID:    "t1",
			Relation:   strPtr("elaboration"),
			Attachment: domain.AttachmentParent,
			ClusterID:  0,
		},
	}

	snapshot := AggregateClusters(rows, domain.AttachPayload{
		Clusters: []domain.AttachedCluster{cluster},
	})

	require.Len(t, snapshot.Clusters, 1)
	got := snapshot.Clusters[0]

	// Root-flagged member wins the headline even when listed second.
	require.NotNil(t, got.Headline)
	assert.Equal(t, "root statement", *got.Headline)

	require.Len(t, got.Nuclei, 2)
	require.NotNil(t, got.Nuclei[0].Text)
	assert.Equal(t, "another nucleus", *got.Nuclei[0].Text)

	require.Len(t, got.SatellitesByRelation["elaboration"], 1)
	sat := got.SatellitesByRelation["elaboration"][0]
	require.NotNil(t, sat.Text)
	assert.Equal(t, "supporting detail", *sat.Text)

	assert.Equal(t, 2, got.Commonality)
	assert.Equal(t, 1, got.SatelliteCount)
	assert.Equal(t, domain.SnapshotCounts{Clusters: 1, TotalNuclei: 2, TotalSatellites: 1}, snapshot.Counts)
}

func TestAggregateClusters_HeadlineFallbacks(t *testing.T) {
	t.Run("no root member falls back to first member text", func(t *testing.T) {
		rows := []domain.EDU{
			{DocID: "d0", EDUID: "a", Text: "first text", Nuclearity: domain.NuclearityNucleus},
			{DocID: "d1", EDUID: "a", Text: "second text", Nuclearity: domain.NuclearityNucleus},
		}
		payload := domain.AttachPayload{Clusters: []domain.AttachedCluster{
			attachedCluster(0, nucleusMember(0, "d0", "a", false), nucleusMember(1, "d1", "a", false)),
		}}
		snapshot := AggregateClusters(rows, payload)
		require.NotNil(t, snapshot.Clusters[0].Headline)
		assert.Equal(t, "first text", *snapshot.Clusters[0].Headline)
	})

	t.Run("missing text yields nil headline", func(t *testing.T) {
		payload := domain.AttachPayload{Clusters: []domain.AttachedCluster{
			attachedCluster(0, nucleusMember(0, "d0", "a", true)),
		}}
		snapshot := AggregateClusters(nil, payload)
		assert.Nil(t, snapshot.Clusters[0].Headline)
		assert.Nil(t, snapshot.Clusters[0].Nuclei[0].Text)
	})

	t.Run("root with empty text is skipped", func(t *testing.T) {
		rows := []domain.EDU{
			{DocID: "d0", EDUID: "a", Text: "", Nuclearity: domain.NuclearityNucleus, IsRoot: true},
			{DocID: "d1", EDUID: "a", Text: "usable", Nuclearity: domain.NuclearityNucleus},
		}
		payload := domain.AttachPayload{Clusters: []domain.AttachedCluster{
			attachedCluster(0, nucleusMember(0, "d1", "a", false), nucleusMember(1, "d0", "a", true)),
		}}
		snapshot := AggregateClusters(rows, payload)
		require.NotNil(t, snapshot.Clusters[0].Headline)
		assert.Equal(t, "usable", *snapshot.Clusters[0].Headline)
	})
}

func TestAggregateClusters_MissingRelationBucketsAsUnspecified(t *testing.T) {
	rows := []domain.EDU{
		{DocID: "d0", EDUID: "s", Text: "orphaned satellite", Nuclearity: domain.NuclearitySatellite},
	}
	cluster := attachedCluster(0, nucleusMember(0, "d0", "a", true))
	cluster.Satellites = []domain.SatelliteAssignment{
		{DocID: "d0", EDUID: "s", TopicID: "t1", Attachment: domain.AttachmentNearest, ClusterID: 0},
	}
	snapshot := AggregateClusters(rows, domain.AttachPayload{
		Clusters: []domain.AttachedCluster{cluster},
	})
	buckets := snapshot.Clusters[0].SatellitesByRelation
	require.Contains(t, buckets, domain.RelationUnspecified)
	assert.Len(t, buckets[domain.RelationUnspecified], 1)
}

func TestAggregateClusters_RankingOrder(t *testing.T) {
	small := attachedCluster(0, nucleusMember(0, "d0", "a", false))
	bigQuiet := attachedCluster(1,
		nucleusMember(1, "d1", "a", false),
		nucleusMember(2, "d2", "a", false),
	)
	bigBusy := attachedCluster(2,
		nucleusMember(3, "d3", "a", false),
		nucleusMember(4, "d4", "a", false),
	)
	bigBusy.Satellites = []domain.SatelliteAssignment{
		{DocID: "d3", EDUID: "s", TopicID: "t1", Attachment: domain.AttachmentParent, ClusterID: 2},
	}

	snapshot := AggregateClusters(nil, domain.AttachPayload{
		Clusters: []domain.AttachedCluster{small, bigQuiet, bigBusy},
	})

	require.Len(t, snapshot.Clusters, 3)
	// Commonality first, then satellite count as the tiebreaker.
	assert.Equal(t, []int{2, 1, 0}, []int{
		snapshot.Clusters[0].ClusterID,
		snapshot.Clusters[1].ClusterID,
		snapshot.Clusters[2].ClusterID,
	})
}

func TestAggregateService_Run(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.WriteEDUs(ctx, []domain.EDU{
		{DocID: "d0", EDUID: "a", Text: "headline text", Nuclearity: domain.NuclearityNucleus, IsRoot: true},
	}))
	require.NoError(t, store.WriteAttachments(ctx, domain.AttachPayload{
		Counts: domain.AttachCounts{Clusters: 1},
		Clusters: []domain.AttachedCluster{
			attachedCluster(0, nucleusMember(0, "d0", "a", true)),
		},
	}))

	svc := NewAggregateService(store, store, store)
	require.NoError(t, svc.Run(ctx))

	snapshot, ok := store.Snapshot()
	require.True(t, ok)
	require.Len(t, snapshot.Clusters, 1)
	require.NotNil(t, snapshot.Clusters[0].Headline)
	assert.Equal(t, "headline text", *snapshot.Clusters[0].Headline)
}

func TestAggregateService_Run_MissingAttachments(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.WriteEDUs(ctx, nil))

	svc := NewAggregateService(store, store, store)
	require.ErrorIs(t, svc.Run(ctx), domain.ErrArtifactNotFound)
}
