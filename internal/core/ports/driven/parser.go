package driven

import (
	"context"

	"github.com/parley-labs/edumap-cli/internal/core/domain"
)

// Parser produces a discourse tree for one document's text.
// The actual parser is an external collaborator: it may be a rule-based
// stub or a third-party discourse model behind a transport. The pipeline
// only relies on this contract.
//
// Implementations may include:
//   - sentencesplit: deterministic sentence-boundary stub
//   - remote RST parser services
type Parser interface {
	// Parse returns the EDUs, relations and root of the given text.
	// The result must be structurally well-formed; the parse stage
	// validates it and rejects contract violations.
	Parse(ctx context.Context, text string) (domain.ParseResult, error)

	// Name identifies the parser backend for provenance metadata.
	Name() string

	// Version identifies the parser version for provenance metadata.
	Version() string
}
