// Package metrics defines the Prometheus collectors exported by the video
// library manager. Collectors are registered at init time via promauto and
// grouped by concern: HTTP, catalog store, scanner, and artifact generation.
package metrics
