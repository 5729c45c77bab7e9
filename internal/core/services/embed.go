package services

import (
	"context"
	"fmt"

	"github.com/parley-labs/edumap-cli/internal/core/domain"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driven"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driving"
	"github.com/parley-labs/edumap-cli/internal/logger"
)

// Ensure EmbedService implements the interface.
var _ driving.EmbedService = (*EmbedService)(nil)

// EmbedService partitions the flat EDU table by nuclearity, embeds each
// category in one batch call, and persists the matrices plus the index
// record binding rows back to EDUs.
type EmbedService struct {
	edus       driven.EDUStore
	embeddings driven.EmbeddingStore
	embedder   driven.EmbeddingService
}

// NewEmbedService creates a new embed service.
func NewEmbedService(
	edus driven.EDUStore,
	embeddings driven.EmbeddingStore,
	embedder driven.EmbeddingService,
) *EmbedService {
	return &EmbedService{
		edus:       edus,
		embeddings: embeddings,
		embedder:   embedder,
	}
}

// Run builds the embedding index. An embedder error aborts the stage; no
// partial index is persisted. Zero rows in either category is valid.
func (s *EmbedService) Run(ctx context.Context) error {
	logger.Section("embed")

	rows, err := s.edus.ReadEDUs(ctx)
	if err != nil {
		return fmt.Errorf("read flat EDU table: %w", err)
	}

	// Partition preserving table order within each category.
	var nuclei, satellites []domain.EDU
	for _, row := range rows {
		switch row.Nuclearity {
		case domain.NuclearityNucleus:
			nuclei = append(nuclei, row)
		case domain.NuclearitySatellite:
			satellites = append(satellites, row)
		default:
			return fmt.Errorf("row (%s, %s): unknown nuclearity %q", row.DocID, row.EDUID, row.Nuclearity)
		}
	}
	logger.Debug("partitioned %d rows: %d nucleus, %d satellite", len(rows), len(nuclei), len(satellites))

	nucleusMatrix, err := s.encodeCategory(ctx, domain.NuclearityNucleus, nuclei)
	if err != nil {
		return err
	}
	satelliteMatrix, err := s.encodeCategory(ctx, domain.NuclearitySatellite, satellites)
	if err != nil {
		return err
	}

	dimension, err := resolveDimension(nucleusMatrix, satelliteMatrix)
	if err != nil {
		return err
	}

	index := domain.EmbeddingIndex{
		Model:     s.embedder.ModelName(),
		Device:    s.embedder.Device(),
		Dimension: dimension,
		Counts: domain.CategoryCounts{
			Nucleus:   len(nuclei),
			Satellite: len(satellites),
		},
		Nucleus:   make([]domain.NucleusRef, len(nuclei)),
		Satellite: make([]domain.SatelliteRef, len(satellites)),
	}
	for i, row := range nuclei {
		index.Nucleus[i] = domain.NucleusRef{
			DocID:    row.DocID,
			EDUID:    row.EDUID,
			TopicID:  row.TopicID,
			Relation: row.Relation,
			Span:     row.Span,
			IsRoot:   row.IsRoot,
		}
	}
	for i, row := range satellites {
		index.Satellite[i] = domain.SatelliteRef{
			DocID:       row.DocID,
			EDUID:       row.EDUID,
			TopicID:     row.TopicID,
			ParentEDUID: row.ParentEDUID,
			Relation:    row.Relation,
			Span:        row.Span,
		}
	}

	if err := s.embeddings.WriteEmbeddings(ctx, index, nucleusMatrix, satelliteMatrix); err != nil {
		return fmt.Errorf("write embeddings: %w", err)
	}
	logger.Info("indexed %d nucleus and %d satellite vectors (dim %d, model %s)",
		len(nuclei), len(satellites), dimension, index.Model)
	return nil
}

// encodeCategory embeds one category with a single batch call. Empty
// categories are valid and produce a zero-row matrix without calling the
// embedder.
func (s *EmbedService) encodeCategory(
	ctx context.Context, category domain.Nuclearity, rows []domain.EDU,
) (driven.Matrix, error) {
	if len(rows) == 0 {
		return driven.Matrix{}, nil
	}

	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i] = row.Text
	}

	vectors, err := s.embedder.Encode(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("encode %s batch: %w", category, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: %s batch returned %d rows for %d texts",
			domain.ErrEmbedderContract, category, len(vectors), len(texts))
	}
	for i, v := range vectors {
		if len(v) != len(vectors[0]) {
			return nil, fmt.Errorf("%w: %s row %d has dimension %d, expected %d",
				domain.ErrEmbedderContract, category, i, len(v), len(vectors[0]))
		}
	}
	return driven.Matrix(vectors), nil
}

// resolveDimension takes the dimension from whichever category is non-empty
// (0 when both are empty) and rejects cross-category mismatches.
func resolveDimension(nucleus, satellite driven.Matrix) (int, error) {
	switch {
	case len(nucleus) > 0 && len(satellite) > 0:
		if len(nucleus[0]) != len(satellite[0]) {
			return 0, fmt.Errorf("%w: nucleus dimension %d != satellite dimension %d",
				domain.ErrEmbedderContract, len(nucleus[0]), len(satellite[0]))
		}
		return len(nucleus[0]), nil
	case len(nucleus) > 0:
		return len(nucleus[0]), nil
	case len(satellite) > 0:
		return len(satellite[0]), nil
	default:
		return 0, nil
	}
}
