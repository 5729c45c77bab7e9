package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-labs/edumap-cli/internal/adapters/driven/embedding/stub"
	"github.com/parley-labs/edumap-cli/internal/adapters/driven/parser/sentencesplit"
	"github.com/parley-labs/edumap-cli/internal/adapters/driven/storage/memory"
	"github.com/parley-labs/edumap-cli/internal/core/domain"
)

// twoDocParses builds two parsed documents, each a root nucleus with one
// satellite elaborating it. EDU ids are unique across documents so the
// parent links resolve unambiguously.
func twoDocParses() []domain.ParsedDocument {
	doc := func(docID, rootID, satID, rootText, satText string) domain.ParsedDocument {
		root := rootID
		return domain.ParsedDocument{
			DocID:   docID,
			TopicID: "t1",
			Parser:  domain.ParserInfo{Name: "fixture", Version: "1"},
			RST: domain.ParseResult{
				EDUs: []domain.ParsedEDU{
					{EDUID: rootID, Text: rootText},
					{EDUID: satID, Text: satText},
				},
				Relations: []domain.TreeRelation{
					{ChildID: satID, ParentID: &root, Relation: "elaboration", Nuclearity: domain.NuclearitySatellite},
				},
				RootEDU: &root,
			},
		}
	}
	return []domain.ParsedDocument{
		doc("d0", "d0-root", "d0-sat", "cats are independent", "they groom themselves"),
		doc("d1", "d1-root", "d1-sat", "dogs are loyal", "they follow their owners"),
	}
}

func buildPipeline(store *memory.Store, k int, seed int64) *Pipeline {
	return &Pipeline{
		Flatten:   NewFlattenService(store, store),
		Embed:     NewEmbedService(store, store, stub.NewEmbeddingService(16)),
		Cluster:   NewClusterService(store, store, k, seed),
		Attach:    NewAttachService(store, store, store, domain.MetricCosine),
		Aggregate: NewAggregateService(store, store, store),
	}
}

func TestPipeline_Run_TwoDocsEndToEnd(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.WriteParses(ctx, twoDocParses()))

	require.NoError(t, buildPipeline(store, 2, 13).Run(ctx))

	snapshot, ok := store.Snapshot()
	require.True(t, ok)
	require.Len(t, snapshot.Clusters, 2)
	assert.Equal(t, domain.SnapshotCounts{Clusters: 2, TotalNuclei: 2, TotalSatellites: 2}, snapshot.Counts)

	headlines := map[string]bool{}
	for _, cluster := range snapshot.Clusters {
		require.Len(t, cluster.Nuclei, 1)
		require.NotNil(t, cluster.Headline)
		headlines[*cluster.Headline] = true

		// Each satellite elaborates its own document's root, so both
		// attach by parent link with one satellite per cluster.
		sats := cluster.SatellitesByRelation["elaboration"]
		require.Len(t, sats, 1)
		assert.Equal(t, domain.AttachmentParent, sats[0].Attachment)
		assert.Nil(t, sats[0].Score)
		assert.Equal(t, cluster.Nuclei[0].DocID, sats[0].DocID)
	}
	assert.True(t, headlines["cats are independent"])
	assert.True(t, headlines["dogs are loyal"])
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	ctx := context.Background()

	run := func() domain.Snapshot {
		store := memory.NewStore()
		require.NoError(t, store.WriteParses(ctx, twoDocParses()))
		require.NoError(t, buildPipeline(store, 2, 13).Run(ctx))
		snapshot, ok := store.Snapshot()
		require.True(t, ok)
		return snapshot
	}

	assert.Equal(t, run(), run())
}

func TestPipeline_Run_AllStagesFromRawText(t *testing.T) {
	store := memory.NewStore()
	store.Documents = []domain.RawDocument{
		{DocID: "d0", TopicID: "t1", AuthorID: "u1", Text: "The server crashed. Logs were lost."},
	}
	ctx := context.Background()

	pipeline := buildPipeline(store, 1, 13)
	pipeline.Parse = NewParseService(store, store, sentencesplit.New())
	require.NoError(t, pipeline.Run(ctx))

	snapshot, ok := store.Snapshot()
	require.True(t, ok)
	require.Len(t, snapshot.Clusters, 1)

	got := snapshot.Clusters[0]
	require.NotNil(t, got.Headline)
	assert.Equal(t, "The server crashed", *got.Headline)
	require.Len(t, got.SatellitesByRelation[sentencesplit.RelationSequence], 1)
}

func TestPipeline_Run_SkipsNilStages(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.WriteParses(ctx, twoDocParses()))

	pipeline := &Pipeline{Flatten: NewFlattenService(store, store)}
	require.NoError(t, pipeline.Run(ctx))

	rows, err := store.ReadEDUs(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	_, err = store.ReadIndex(ctx)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestPipeline_Run_StopsAtFirstFailure(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.WriteParses(ctx, twoDocParses()))

	// k larger than the nucleus population makes the cluster stage fail.
	pipeline := buildPipeline(store, 10, 13)
	err := pipeline.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidK)
	assert.Contains(t, err.Error(), "stage cluster")

	// Earlier stages kept their artifacts, later ones never ran.
	_, err = store.ReadIndex(ctx)
	require.NoError(t, err)
	_, err = store.ReadClusters(ctx)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}
