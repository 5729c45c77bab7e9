package domain

import "errors"

// Domain errors represent pipeline failures.
// Every stage either completes and writes a self-consistent artifact, or
// fails with one of these and writes nothing.
var (
	// ErrMalformedTree indicates a parse tree failed structural validation:
	// duplicate EDU ids, a relation naming an unknown EDU, a missing root,
	// or a root with an incoming relation.
	ErrMalformedTree = errors.New("malformed discourse tree")

	// ErrArtifactNotFound indicates a required artifact of a previous stage
	// is missing.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrInvalidK indicates the requested cluster count is out of range:
	// below one or above the nucleus population.
	ErrInvalidK = errors.New("invalid cluster count")

	// ErrEmptyCategory indicates a stage requires a non-empty nuclearity
	// category that turned out to be empty.
	ErrEmptyCategory = errors.New("empty nuclearity category")

	// ErrNoClusters indicates satellites must attach but no clusters exist.
	ErrNoClusters = errors.New("cannot attach satellites without clusters")

	// ErrParserContract indicates the external parser returned a structure
	// that violates its contract.
	ErrParserContract = errors.New("parser contract violation")

	// ErrEmbedderContract indicates the external embedder returned the wrong
	// number of rows or inconsistent dimensions.
	ErrEmbedderContract = errors.New("embedder contract violation")

	// ErrInvalidMetric indicates an unknown similarity metric selector.
	ErrInvalidMetric = errors.New("invalid similarity metric")
)
