package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mranlett/ViLM/internal/library"
)

// Handlers carries the dependencies the HTTP endpoints need.
type Handlers struct {
	lib       *library.Library
	startTime time.Time
}

// New creates the handler set over an open library.
func New(lib *library.Library) *Handlers {
	return &Handlers{
		lib:       lib,
		startTime: time.Now(),
	}
}

// NewRouter builds the API router with all routes registered.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/assets", h.ListAssets).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id}", h.GetAsset).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id}", h.UpdateAsset).Methods(http.MethodPut)
	api.HandleFunc("/assets/{id}/thumbnail", h.CreateThumbnail).Methods(http.MethodPost)
	api.HandleFunc("/assets/{id}/thumbnail", h.GetThumbnail).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id}/contact-sheet", h.CreateContactSheet).Methods(http.MethodPost)
	api.HandleFunc("/assets/{id}/contact-sheet", h.GetContactSheet).Methods(http.MethodGet)
	api.HandleFunc("/scan", h.TriggerScan).Methods(http.MethodPost)
	api.HandleFunc("/artifacts", h.TriggerArtifacts).Methods(http.MethodPost)
	api.HandleFunc("/actors", h.ListActors).Methods(http.MethodGet)
	api.HandleFunc("/actions", h.ListActions).Methods(http.MethodGet)

	return r
}
