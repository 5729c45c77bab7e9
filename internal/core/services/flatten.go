package services

import (
	"context"
	"fmt"

	"github.com/parley-labs/edumap-cli/internal/core/domain"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driven"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driving"
	"github.com/parley-labs/edumap-cli/internal/logger"
)

// Ensure FlattenService implements the interface.
var _ driving.FlattenService = (*FlattenService)(nil)

// FlattenService converts parsed discourse trees into the flat EDU table.
type FlattenService struct {
	parses driven.ParseStore
	edus   driven.EDUStore
}

// NewFlattenService creates a new flatten service.
func NewFlattenService(parses driven.ParseStore, edus driven.EDUStore) *FlattenService {
	return &FlattenService{
		parses: parses,
		edus:   edus,
	}
}

// Run reads all parse trees, flattens them and writes the flat EDU table.
// Any malformed tree aborts the stage before anything is written.
func (s *FlattenService) Run(ctx context.Context) error {
	logger.Section("flatten")

	docs, err := s.parses.ReadParses(ctx)
	if err != nil {
		return fmt.Errorf("read parses: %w", err)
	}

	rows, err := FlattenTrees(docs)
	if err != nil {
		return err
	}

	if err := s.edus.WriteEDUs(ctx, rows); err != nil {
		return fmt.Errorf("write flat EDU table: %w", err)
	}
	logger.Info("flattened %d documents into %d EDU rows", len(docs), len(rows))
	return nil
}

// FlattenTrees converts one tree per document into flat EDU records,
// order-preserving within each document and concatenated across documents.
// Each tree is validated in full before any of its rows are emitted.
func FlattenTrees(docs []domain.ParsedDocument) ([]domain.EDU, error) {
	rows := make([]domain.EDU, 0, len(docs))

	for _, doc := range docs {
		if err := validateTree(doc.RST); err != nil {
			return nil, fmt.Errorf("doc %s: %w", doc.DocID, err)
		}

		relationByChild := make(map[string]domain.TreeRelation, len(doc.RST.Relations))
		for _, rel := range doc.RST.Relations {
			relationByChild[rel.ChildID] = rel
		}

		for _, edu := range doc.RST.EDUs {
			row := domain.EDU{
				DocID:   doc.DocID,
				TopicID: doc.TopicID,
				EDUID:   edu.EDUID,
				Text:    edu.Text,
				Span:    edu.Span,
				IsRoot:  doc.RST.RootEDU != nil && *doc.RST.RootEDU == edu.EDUID,
			}

			if rel, ok := relationByChild[edu.EDUID]; ok {
				relation := rel.Relation
				row.Nuclearity = rel.Nuclearity
				row.Relation = &relation
				row.ParentEDUID = rel.ParentID
			} else {
				// No incoming relation: a nucleus with no parent. This covers
				// exactly the root case and any isolated nucleus.
				row.Nuclearity = domain.NuclearityNucleus
			}

			rows = append(rows, row)
		}
	}

	return rows, nil
}

// validateTree rejects structurally malformed trees: duplicate EDU ids,
// relations naming unknown or ambiguous children, relations pointing at
// unknown parents, a missing or unknown root, or a root with an incoming
// relation.
func validateTree(tree domain.ParseResult) error {
	known := make(map[string]bool, len(tree.EDUs))
	for _, edu := range tree.EDUs {
		if edu.EDUID == "" {
			return fmt.Errorf("%w: EDU with empty id", domain.ErrMalformedTree)
		}
		if known[edu.EDUID] {
			return fmt.Errorf("%w: duplicate EDU id %q", domain.ErrMalformedTree, edu.EDUID)
		}
		known[edu.EDUID] = true
	}

	seenChild := make(map[string]bool, len(tree.Relations))
	for _, rel := range tree.Relations {
		if !known[rel.ChildID] {
			return fmt.Errorf("%w: relation references unknown child %q", domain.ErrMalformedTree, rel.ChildID)
		}
		if seenChild[rel.ChildID] {
			return fmt.Errorf("%w: multiple relations for child %q", domain.ErrMalformedTree, rel.ChildID)
		}
		seenChild[rel.ChildID] = true

		if rel.ParentID != nil && *rel.ParentID != "" && !known[*rel.ParentID] {
			return fmt.Errorf("%w: relation references unknown parent %q", domain.ErrMalformedTree, *rel.ParentID)
		}
		if !rel.Nuclearity.Valid() {
			return fmt.Errorf("%w: unknown nuclearity %q for child %q", domain.ErrMalformedTree, rel.Nuclearity, rel.ChildID)
		}
	}

	// Empty trees carry no root; everything else must declare one, and the
	// root must be a parentless nucleus so that is_root implies no relation.
	if len(tree.EDUs) == 0 {
		return nil
	}
	if tree.RootEDU == nil || *tree.RootEDU == "" {
		return fmt.Errorf("%w: tree declares no root", domain.ErrMalformedTree)
	}
	if !known[*tree.RootEDU] {
		return fmt.Errorf("%w: root %q is not a declared EDU", domain.ErrMalformedTree, *tree.RootEDU)
	}
	if seenChild[*tree.RootEDU] {
		return fmt.Errorf("%w: root %q has an incoming relation", domain.ErrMalformedTree, *tree.RootEDU)
	}
	return nil
}
