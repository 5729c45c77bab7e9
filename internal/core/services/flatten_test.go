package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-labs/edumap-cli/internal/adapters/driven/storage/memory"
	"github.com/parley-labs/edumap-cli/internal/core/domain"
)

func strPtr(s string) *string {
	return &s
}

// chainDoc builds a document whose tree is a root nucleus followed by a
// chain of satellites, the shape the sentence-split parser produces.
func chainDoc(docID, topicID string, texts ...string) domain.ParsedDocument {
	doc := domain.ParsedDocument{
		DocID:   docID,
		TopicID: topicID,
		Parser:  domain.ParserInfo{Name: "sentence_split", Version: "0.1"},
	}
	var previous string
	for i, text := range texts {
		eduID := string(rune('a' + i))
		doc.RST.EDUs = append(doc.RST.EDUs, domain.ParsedEDU{EDUID: eduID, Text: text})
		if previous != "" {
			doc.RST.Relations = append(doc.RST.Relations, domain.TreeRelation{
				ChildID:    eduID,
				ParentID:   strPtr(previous),
				Relation:   "elaboration",
				Nuclearity: domain.NuclearitySatellite,
			})
		}
		previous = eduID
	}
	if len(doc.RST.EDUs) > 0 {
		root := doc.RST.EDUs[0].EDUID
		doc.RST.RootEDU = &root
	}
	return doc
}

func TestFlattenTrees_RecordPerEDU(t *testing.T) {
	docs := []domain.ParsedDocument{
		chainDoc("d1", "t1", "the ban works", "because trucks stage at night", "and sweepers clear the curb"),
		chainDoc("d2", "t1", "the ban hurts renters"),
	}

	rows, err := FlattenTrees(docs)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Order-preserving within a document, concatenated across documents.
	assert.Equal(t, "d1", rows[0].DocID)
	assert.Equal(t, "a", rows[0].EDUID)
	assert.Equal(t, "c", rows[2].EDUID)
	assert.Equal(t, "d2", rows[3].DocID)
}

func TestFlattenTrees_ExactlyOneRootPerDocument(t *testing.T) {
	docs := []domain.ParsedDocument{
		chainDoc("d1", "t1", "one", "two", "three"),
		chainDoc("d2", "t1", "four", "five"),
	}

	rows, err := FlattenTrees(docs)
	require.NoError(t, err)

	roots := map[string]int{}
	for _, row := range rows {
		if row.IsRoot {
			roots[row.DocID]++
		}
	}
	assert.Equal(t, map[string]int{"d1": 1, "d2": 1}, roots)
}

func TestFlattenTrees_RootHasNoParentOrRelation(t *testing.T) {
	rows, err := FlattenTrees([]domain.ParsedDocument{chainDoc("d1", "t1", "root", "sat")})
	require.NoError(t, err)

	require.True(t, rows[0].IsRoot)
	assert.Nil(t, rows[0].ParentEDUID)
	assert.Nil(t, rows[0].Relation)
	assert.Equal(t, domain.NuclearityNucleus, rows[0].Nuclearity)

	require.False(t, rows[1].IsRoot)
	require.NotNil(t, rows[1].ParentEDUID)
	assert.Equal(t, "a", *rows[1].ParentEDUID)
	require.NotNil(t, rows[1].Relation)
	assert.Equal(t, "elaboration", *rows[1].Relation)
	assert.Equal(t, domain.NuclearitySatellite, rows[1].Nuclearity)
}

func TestFlattenTrees_ParentRefsResolveWithinDocument(t *testing.T) {
	docs := []domain.ParsedDocument{
		chainDoc("d1", "t1", "one", "two", "three"),
		chainDoc("d2", "t2", "four", "five"),
	}
	rows, err := FlattenTrees(docs)
	require.NoError(t, err)

	byDoc := map[string]map[string]bool{}
	for _, row := range rows {
		if byDoc[row.DocID] == nil {
			byDoc[row.DocID] = map[string]bool{}
		}
		byDoc[row.DocID][row.EDUID] = true
	}
	for _, row := range rows {
		if row.ParentEDUID != nil {
			assert.True(t, byDoc[row.DocID][*row.ParentEDUID],
				"parent %s of (%s, %s) must be an EDU of the same document", *row.ParentEDUID, row.DocID, row.EDUID)
		}
	}
}

func TestFlattenTrees_IsolatedNucleusGetsNoParent(t *testing.T) {
	doc := chainDoc("d1", "t1", "root", "sat")
	// An extra EDU with no incoming relation: a nucleus with no parent.
	doc.RST.EDUs = append(doc.RST.EDUs, domain.ParsedEDU{EDUID: "z", Text: "isolated"})

	rows, err := FlattenTrees([]domain.ParsedDocument{doc})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	isolated := rows[2]
	assert.Equal(t, domain.NuclearityNucleus, isolated.Nuclearity)
	assert.Nil(t, isolated.ParentEDUID)
	assert.Nil(t, isolated.Relation)
	assert.False(t, isolated.IsRoot)
}

func TestFlattenTrees_EmptyTreeEmitsNothing(t *testing.T) {
	rows, err := FlattenTrees([]domain.ParsedDocument{{DocID: "d1", TopicID: "t1"}})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFlattenTrees_MalformedTrees(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ParsedDocument)
	}{
		{
			name: "duplicate EDU id",
			mutate: func(doc *domain.ParsedDocument) {
				doc.RST.EDUs = append(doc.RST.EDUs, domain.ParsedEDU{EDUID: "a", Text: "again"})
			},
		},
		{
			name: "relation references unknown child",
			mutate: func(doc *domain.ParsedDocument) {
				doc.RST.Relations = append(doc.RST.Relations, domain.TreeRelation{
					ChildID:    "ghost",
					ParentID:   strPtr("a"),
					Relation:   "elaboration",
					Nuclearity: domain.NuclearitySatellite,
				})
			},
		},
		{
			name: "relation references unknown parent",
			mutate: func(doc *domain.ParsedDocument) {
				doc.RST.Relations[0].ParentID = strPtr("ghost")
			},
		},
		{
			name: "missing root",
			mutate: func(doc *domain.ParsedDocument) {
				doc.RST.RootEDU = nil
			},
		},
		{
			name: "root is not a declared EDU",
			mutate: func(doc *domain.ParsedDocument) {
				doc.RST.RootEDU = strPtr("ghost")
			},
		},
		{
			name: "root has an incoming relation",
			mutate: func(doc *domain.ParsedDocument) {
				doc.RST.RootEDU = strPtr("b")
			},
		},
		{
			name: "multiple relations for one child",
			mutate: func(doc *domain.ParsedDocument) {
				doc.RST.Relations = append(doc.RST.Relations, doc.RST.Relations[0])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := chainDoc("d1", "t1", "root", "sat")
			tt.mutate(&doc)

			rows, err := FlattenTrees([]domain.ParsedDocument{doc})
			require.ErrorIs(t, err, domain.ErrMalformedTree)
			assert.Nil(t, rows)
		})
	}
}

func TestFlattenService_Run(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.WriteParses(ctx, []domain.ParsedDocument{
		chainDoc("d1", "t1", "one", "two"),
	}))

	svc := NewFlattenService(store, store)
	require.NoError(t, svc.Run(ctx))

	rows, err := store.ReadEDUs(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFlattenService_Run_MalformedTreeWritesNothing(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	doc := chainDoc("d1", "t1", "one", "two")
	doc.RST.RootEDU = nil
	require.NoError(t, store.WriteParses(ctx, []domain.ParsedDocument{doc}))

	svc := NewFlattenService(store, store)
	require.ErrorIs(t, svc.Run(ctx), domain.ErrMalformedTree)

	_, err := store.ReadEDUs(ctx)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}
