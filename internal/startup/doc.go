// Package startup handles application initialization: loading and
// validating configuration from environment variables, checking the
// library root and the ffmpeg/ffprobe binaries, and producing the
// structured startup and shutdown log output.
//
// Configuration is environment-variable driven:
//
//	LIBRARY_DIR        root of the video library (default /library)
//	PORT               API listen port (default 8080)
//	METRICS_PORT       Prometheus listen port (default 9090)
//	METRICS_ENABLED    expose /metrics (default true)
//	SCAN_ON_START      run a scan and artifact pass at boot (default true)
//	LOG_HEALTH_CHECKS  log health endpoint hits (default false)
//	THUMBNAIL_MAX_SIZE longest thumbnail edge in pixels (default 640)
//	THUMBNAIL_QUALITY  thumbnail JPEG quality (default 80)
//	SHEET_COLUMNS      contact sheet grid columns (default 4)
//	SHEET_ROWS         contact sheet grid rows (default 3)
//	SHEET_TIMESTAMPS   draw timecode labels on cells (default true)
//	ARTIFACT_WORKERS   artifact pool size override (default CPU-based)
//
// Build information (Version, Commit, BuildTime) is injected at link
// time via -ldflags.
package startup
