// Package scanner discovers video files under a library root and registers
// them in the catalog.
//
// A scan is a one-shot full-tree batch walk: hidden entries and the
// .catalog directory are skipped, supported extensions (mp4, mov, m4v) are
// registered via insert-or-ignore, and per-entry enumeration errors are
// logged and skipped without aborting the walk. Rescanning an unchanged
// tree is idempotent because registration conflicts on the relative path
// are ignored by the catalog.
package scanner
