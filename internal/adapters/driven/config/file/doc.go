// Package file provides the TOML-backed pipeline configuration.
//
// Configuration lives in a single edumap.toml file and carries the defaults
// for every stage: corpus location, parser backend, embedder backend and
// model, cluster count and seed, and the attachment metric. CLI flags
// override individual values at invocation time.
package file
