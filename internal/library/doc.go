// Package library orchestrates the catalog, the filesystem scanner, and
// the artifact generator over a single media root.
//
// A Library owns the catalog handle for its root and exposes the two
// long-running operations the server triggers: Scan, which registers new
// video files, and GenerateArtifacts, which backfills thumbnails and
// contact sheets for every cataloged asset using a bounded worker pool.
// Both operations are guarded so only one run of each is active at a
// time; a second trigger while a run is in flight returns immediately.
package library
