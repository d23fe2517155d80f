package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vilm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vilm_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vilm_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Catalog metrics
var (
	CatalogQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vilm_catalog_queries_total",
			Help: "Total number of catalog store queries",
		},
		[]string{"operation", "status"},
	)

	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vilm_catalog_query_duration_seconds",
			Help:    "Catalog query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	CatalogAssets = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vilm_catalog_assets",
			Help: "Number of assets in the catalog by review status",
		},
		[]string{"status"},
	)
)

// Scanner metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vilm_scan_runs_total",
			Help: "Total number of library scans",
		},
	)

	ScanLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vilm_scan_last_run_duration_seconds",
			Help: "Duration of the last library scan in seconds",
		},
	)

	ScanFilesRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vilm_scan_files_registered_total",
			Help: "Total number of video files registered during scans",
		},
	)

	ScanEntriesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vilm_scan_entries_skipped_total",
			Help: "Total number of entries skipped due to enumeration errors",
		},
	)
)

// Artifact metrics
var (
	ArtifactsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vilm_artifacts_generated_total",
			Help: "Total number of derived artifacts generated",
		},
		[]string{"kind"}, // "thumbnail", "contact_sheet"
	)

	ArtifactsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vilm_artifacts_skipped_total",
			Help: "Total number of artifact generations skipped because the cache was current",
		},
		[]string{"kind"},
	)

	ArtifactFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vilm_artifact_failures_total",
			Help: "Total number of hard artifact generation failures",
		},
		[]string{"kind"},
	)

	ArtifactFramesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vilm_artifact_frames_skipped_total",
			Help: "Total number of contact sheet frames skipped due to extraction failures",
		},
	)

	ArtifactDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vilm_artifact_duration_seconds",
			Help:    "Artifact generation duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"kind"},
	)
)
