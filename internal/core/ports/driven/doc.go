// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Parser: produces a discourse tree for one document
//   - EmbeddingService: batch text embedding (unit-normalized rows)
//   - CorpusReader: reads the externally-owned raw corpus
//   - ParseStore / EDUStore / EmbeddingStore / ClusterStore /
//     AttachStore / SnapshotStore: stage-to-stage artifact handoff.
//     Each artifact is produced once and read-only downstream.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
