package services

import (
	"context"
	"fmt"

	"github.com/parley-labs/edumap-cli/internal/core/domain"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driven"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driving"
	"github.com/parley-labs/edumap-cli/internal/logger"
)

// Ensure ParseService implements the interface.
var _ driving.ParseService = (*ParseService)(nil)

// ParseService runs the external discourse parser across the raw corpus and
// materialises one tree per document.
type ParseService struct {
	corpus driven.CorpusReader
	parses driven.ParseStore
	parser driven.Parser
}

// NewParseService creates a new parse service.
func NewParseService(corpus driven.CorpusReader, parses driven.ParseStore, parser driven.Parser) *ParseService {
	return &ParseService{
		corpus: corpus,
		parses: parses,
		parser: parser,
	}
}

// Run parses every corpus document. A parser failure or contract violation
// aborts the stage; no partial artifact is written.
func (s *ParseService) Run(ctx context.Context) error {
	logger.Section("parse")

	docs, err := s.corpus.ReadDocuments(ctx)
	if err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}

	info := domain.ParserInfo{
		Name:    s.parser.Name(),
		Version: s.parser.Version(),
	}
	logger.Info("parsing %d documents with %s %s", len(docs), info.Name, info.Version)

	rows := make([]domain.ParsedDocument, 0, len(docs))
	for _, doc := range docs {
		result, err := s.parser.Parse(ctx, doc.Text)
		if err != nil {
			return fmt.Errorf("parse doc %s: %w", doc.DocID, err)
		}
		if err := checkParserContract(result); err != nil {
			return fmt.Errorf("doc %s: %w", doc.DocID, err)
		}

		rows = append(rows, domain.ParsedDocument{
			DocID:   doc.DocID,
			TopicID: doc.TopicID,
			Parser:  info,
			RST:     result,
		})
	}

	if err := s.parses.WriteParses(ctx, rows); err != nil {
		return fmt.Errorf("write parses: %w", err)
	}
	logger.Info("wrote %d parse trees", len(rows))
	return nil
}

// checkParserContract rejects results that violate the parser contract at
// the shape level. Full structural validation of the tree happens in the
// flatten stage.
func checkParserContract(result domain.ParseResult) error {
	for _, edu := range result.EDUs {
		if edu.EDUID == "" {
			return fmt.Errorf("%w: EDU with empty id", domain.ErrParserContract)
		}
	}
	for _, rel := range result.Relations {
		if rel.ChildID == "" {
			return fmt.Errorf("%w: relation with empty child id", domain.ErrParserContract)
		}
		if !rel.Nuclearity.Valid() {
			return fmt.Errorf("%w: unknown nuclearity %q", domain.ErrParserContract, rel.Nuclearity)
		}
	}
	return nil
}
