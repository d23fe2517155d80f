// Package middleware provides HTTP middleware for the catalog server.
//
// It includes request logging with sanitized fields and Prometheus
// request metrics keyed by mux route template to keep label cardinality
// bounded. Health and metrics endpoints are skipped by default.
package middleware
