package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/mranlett/ViLM/internal/catalog"
	"github.com/mranlett/ViLM/internal/library"
	"github.com/mranlett/ViLM/internal/logging"
)

// ListAssets returns every cataloged asset.
func (h *Handlers) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.lib.Catalog().FetchAll(r.Context())
	if err != nil {
		logging.Error("listing assets: %v", err)
		writeJSONError(w, "failed to list assets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"assets": assets,
		"count":  len(assets),
	})
}

// GetAsset returns a single asset by id.
func (h *Handlers) GetAsset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	asset, err := h.lib.Catalog().FetchByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrAssetNotFound) {
			writeJSONError(w, "asset not found", http.StatusNotFound)
			return
		}
		logging.Error("fetching asset %s: %v", id, err)
		writeJSONError(w, "failed to fetch asset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, asset)
}

// updateAssetRequest is the mutable portion of an asset record.
type updateAssetRequest struct {
	Status catalog.Status `json:"status"`
	Tags   []string       `json:"tags"`
}

// UpdateAsset replaces an asset's review status and tags.
func (h *Handlers) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !req.Status.Valid() {
		writeJSONError(w, "invalid status", http.StatusBadRequest)
		return
	}

	asset, err := h.lib.Catalog().FetchByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrAssetNotFound) {
			writeJSONError(w, "asset not found", http.StatusNotFound)
			return
		}
		logging.Error("fetching asset %s for update: %v", id, err)
		writeJSONError(w, "failed to fetch asset", http.StatusInternalServerError)
		return
	}

	asset.Status = req.Status
	asset.Tags = req.Tags
	if asset.Tags == nil {
		asset.Tags = []string{}
	}

	if err := h.lib.Catalog().Update(r.Context(), asset); err != nil {
		logging.Error("updating asset %s: %v", id, err)
		writeJSONError(w, "failed to update asset", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, asset)
}

// TriggerScan starts a library scan in the background.
func (h *Handlers) TriggerScan(w http.ResponseWriter, _ *http.Request) {
	if h.lib.Scanning() {
		writeJSONError(w, "scan already running", http.StatusConflict)
		return
	}

	go func() {
		if _, err := h.lib.Scan(context.Background()); err != nil && !errors.Is(err, library.ErrBusy) {
			logging.Error("background scan: %v", err)
		}
	}()

	writeJSONStatus(w, "scan started", http.StatusAccepted)
}

// TriggerArtifacts starts an artifact generation run in the background.
func (h *Handlers) TriggerArtifacts(w http.ResponseWriter, _ *http.Request) {
	if h.lib.Generating() {
		writeJSONError(w, "artifact run already running", http.StatusConflict)
		return
	}

	go func() {
		if _, err := h.lib.GenerateArtifacts(context.Background()); err != nil && !errors.Is(err, library.ErrBusy) {
			logging.Error("background artifact run: %v", err)
		}
	}()

	writeJSONStatus(w, "artifact run started", http.StatusAccepted)
}

// ListActors returns the distinct actor names across all assets.
func (h *Handlers) ListActors(w http.ResponseWriter, r *http.Request) {
	h.listTagValues(w, r, catalog.Actors)
}

// ListActions returns the distinct action tags across all assets.
func (h *Handlers) ListActions(w http.ResponseWriter, r *http.Request) {
	h.listTagValues(w, r, catalog.Actions)
}

func (h *Handlers) listTagValues(w http.ResponseWriter, r *http.Request, extract func([]string) []string) {
	assets, err := h.lib.Catalog().FetchAll(r.Context())
	if err != nil {
		logging.Error("listing tag values: %v", err)
		writeJSONError(w, "failed to list tag values", http.StatusInternalServerError)
		return
	}

	seen := make(map[string]bool)
	values := []string{}
	for _, asset := range assets {
		for _, v := range extract(asset.Tags) {
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
	}
	sort.Strings(values)

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, values)
}
