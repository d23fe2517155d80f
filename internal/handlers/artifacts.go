package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mranlett/ViLM/internal/artifact"
	"github.com/mranlett/ViLM/internal/catalog"
	"github.com/mranlett/ViLM/internal/logging"
)

// CreateThumbnail generates the thumbnail for one asset. Pass
// ?overwrite=true to replace an existing file.
func (h *Handlers) CreateThumbnail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	overwrite, _ := strconv.ParseBool(r.URL.Query().Get("overwrite"))

	if err := h.lib.GenerateThumbnailFor(r.Context(), id, overwrite); err != nil {
		writeGenerationError(w, id, err)
		return
	}
	writeJSONStatus(w, "thumbnail generated", http.StatusOK)
}

// CreateContactSheet generates the contact sheet for one asset. An
// existing sheet is left untouched.
func (h *Handlers) CreateContactSheet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.lib.GenerateContactSheetFor(r.Context(), id); err != nil {
		writeGenerationError(w, id, err)
		return
	}
	writeJSONStatus(w, "contact sheet generated", http.StatusOK)
}

// GetThumbnail serves the cached thumbnail JPEG.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, catalog.ThumbnailPath)
}

// GetContactSheet serves the cached contact sheet JPEG.
func (h *Handlers) GetContactSheet(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, catalog.ContactSheetPath)
}

func (h *Handlers) serveArtifact(w http.ResponseWriter, r *http.Request, pathFor func(root, id string) string) {
	id := mux.Vars(r)["id"]

	path := pathFor(h.lib.Root(), id)
	if _, err := os.Stat(path); err != nil {
		writeJSONError(w, "artifact not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	http.ServeFile(w, r, path)
}

func writeGenerationError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, catalog.ErrAssetNotFound) {
		writeJSONError(w, "asset not found", http.StatusNotFound)
		return
	}

	var genErr *artifact.GenerationError
	if errors.As(err, &genErr) {
		logging.Error("generating %s for %s: %v", genErr.Kind, id, err)
		writeJSONError(w, "artifact generation failed", http.StatusInternalServerError)
		return
	}

	logging.Error("generating artifact for %s: %v", id, err)
	writeJSONError(w, "artifact generation failed", http.StatusInternalServerError)
}
