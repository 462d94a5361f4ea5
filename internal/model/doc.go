// Package model defines the core data structures used throughout dehashscan.
//
// This package contains the following main types:
//   - Record: One breach entry returned by the API, with field order preserved
//   - Classification: Hash identifier output mapping hashes to candidate modes
//   - Scan: The state of one scan as it moves through the pipeline
//
// The models live in their own package so that the fetcher, artifact writer,
// classifier, pipeline and report packages can share them without import
// cycles. Scan is serializable to JSON for history storage.
package model
