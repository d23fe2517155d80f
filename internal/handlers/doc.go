// Package handlers implements the HTTP boundary API over the library:
// asset listing and review updates, scan and artifact triggers, cached
// artifact serving, and the health/version endpoints.
//
// All responses are JSON except the artifact endpoints, which serve the
// cached JPEG files directly.
package handlers
