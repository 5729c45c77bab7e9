// Package domain defines the core entities of the edumap pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument / ParseResult: corpus documents and their discourse trees
//   - EDU: a flattened elementary discourse unit record
//   - EmbeddingIndex: row-aligned descriptors for the vector matrices
//   - Cluster / SatelliteAssignment: clustering and attachment results
//   - Snapshot: the final aggregated bullet structure
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
