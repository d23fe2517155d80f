// Package catalog provides the persistent asset registry for a video
// library root.
//
// Each library root owns a .catalog directory containing a SQLite store
// plus the thumbnail and contact sheet caches:
//
//	<root>/.catalog/catalog.db
//	<root>/.catalog/thumbnails/<id>.jpg
//	<root>/.catalog/contactSheets/<id>.jpg
//
// The store holds one row per indexed video file, keyed by a UUID assigned
// at first registration. The relative path is unique within a library and
// acts as the natural key across rescans: conflicting inserts are ignored,
// never overwritten, so rescans cannot disturb existing identity or tags.
//
// The schema evolves by additive, ordered, idempotent migrations only.
// The store uses WAL mode; writes are serialized through a single writer
// lock while reads may proceed concurrently.
package catalog
