// Package sentencesplit provides a rule-based stub discourse parser.
// It splits text on sentence boundaries, treats the first sentence as the
// root nucleus, and chains every following sentence to its predecessor as a
// satellite with the "sequence" relation. It exists so the pipeline can run
// end-to-end without a discourse model behind it.
package sentencesplit

import (
	"context"
	"fmt"
	"strings"

	"github.com/parley-labs/edumap-cli/internal/core/domain"
	"github.com/parley-labs/edumap-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// RelationSequence is the relation label assigned to chained sentences.
const RelationSequence = "sequence"

// Parser is the sentence-boundary stub parser.
type Parser struct{}

// New creates a sentence-split parser.
func New() *Parser {
	return &Parser{}
}

// Parse splits the text on "." and builds a left-to-right chain:
// the first sentence is the root nucleus, each later sentence a satellite
// of the one before it.
func (p *Parser) Parse(_ context.Context, text string) (domain.ParseResult, error) {
	var sentences []string
	for _, part := range strings.Split(text, ".") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}

	result := domain.ParseResult{
		EDUs:      make([]domain.ParsedEDU, 0, len(sentences)),
		Relations: make([]domain.TreeRelation, 0, max(0, len(sentences)-1)),
	}

	var previous string
	for i, sentence := range sentences {
		eduID := fmt.Sprintf("e%03d", i+1)
		result.EDUs = append(result.EDUs, domain.ParsedEDU{
			EDUID: eduID,
			Text:  sentence,
		})
		if previous != "" {
			parent := previous
			result.Relations = append(result.Relations, domain.TreeRelation{
				ChildID:    eduID,
				ParentID:   &parent,
				Relation:   RelationSequence,
				Nuclearity: domain.NuclearitySatellite,
			})
		}
		previous = eduID
	}

	if len(result.EDUs) > 0 {
		root := result.EDUs[0].EDUID
		result.RootEDU = &root
	}
	return result, nil
}

// Name identifies the parser backend.
func (p *Parser) Name() string {
	return "sentence_split"
}

// Version identifies the parser version.
func (p *Parser) Version() string {
	return "0.1"
}
