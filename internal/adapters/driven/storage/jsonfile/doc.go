// Package jsonfile provides a file-based implementation of the artifact
// store ports.
//
// Row-oriented tables (corpus, parse trees, flat EDUs, vector matrices) are
// line-delimited JSON; structured payloads (embedding index, clusters,
// assignments, snapshot) are single indented JSON documents. A single Store
// over one data directory implements every stage's port:
//
//   - CorpusReader: raw/docs.jsonl
//   - ParseStore: rst/rst_trees.jsonl
//   - EDUStore: edus/edus.jsonl
//   - EmbeddingStore: embeddings/{nucleus.vec.jsonl,satellite.vec.jsonl,index.json}
//   - ClusterStore: clusters/nucleus_clusters.json
//   - AttachStore: clusters/clusters_with_satellites.json
//   - SnapshotStore: snapshots/final_bullets.json
//
// # Atomicity
//
// Every write lands in a uniquely-named temp file next to the target and is
// renamed into place only on success, so a failed stage never leaves a
// partial artifact behind.
package jsonfile
