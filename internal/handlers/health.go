package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/mranlett/ViLM/internal/catalog"
	"github.com/mranlett/ViLM/internal/library"
	"github.com/mranlett/ViLM/internal/logging"
	"github.com/mranlett/ViLM/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response.
type HealthResponse struct {
	Status     string           `json:"status"`
	Version    string           `json:"version"`
	Uptime     string           `json:"uptime"`
	Scanning   bool             `json:"scanning"`
	Generating bool             `json:"generating"`
	Artifacts  library.Progress `json:"artifacts"`

	TotalAssets int `json:"totalAssets"`
	Unreviewed  int `json:"unreviewed"`
	Reviewed    int `json:"reviewed"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports service status with catalog counts and run state.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Scanning:     h.lib.Scanning(),
		Generating:   h.lib.Generating(),
		Artifacts:    h.lib.Progress(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	counts, err := h.lib.Catalog().CountByStatus(r.Context())
	if err != nil {
		logging.Warn("health check: counting assets: %v", err)
		response.Status = statusDegraded
	} else {
		response.Unreviewed = counts[catalog.StatusUnreviewed]
		response.Reviewed = counts[catalog.StatusReviewed]
		response.TotalAssets = response.Unreviewed + response.Reviewed
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Status != statusHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, response)
}

// LivenessCheck always returns 200 while the server is running.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 once the catalog answers queries.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := h.lib.Catalog().CountByStatus(r.Context()); err != nil {
		writeJSONStatus(w, "not_ready", http.StatusServiceUnavailable)
		return
	}
	writeJSONStatus(w, "ready", http.StatusOK)
}

// GetVersion returns build information.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, startup.GetBuildInfo())
}
