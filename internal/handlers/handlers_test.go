package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gorilla/mux"

	"github.com/mranlett/ViLM/internal/artifact"
	"github.com/mranlett/ViLM/internal/catalog"
	"github.com/mranlett/ViLM/internal/library"
)

type stubProber struct{}

func (stubProber) Duration(_ context.Context, _ string) (float64, error) {
	return 60, nil
}

func (stubProber) ExtractFrame(_ context.Context, _ string, _ float64) (image.Image, error) {
	return imaging.New(64, 36, color.NRGBA{R: 120, G: 80, B: 40, A: 255}), nil
}

// newTestServer builds a router over a scanned two-video library.
func newTestServer(t *testing.T) (*mux.Router, *library.Library) {
	t.Helper()

	root := t.TempDir()
	for _, rel := range []string{"a.mp4", "clips/b.mp4"} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	lib, err := library.Open(context.Background(), library.Config{
		Root:      root,
		Thumbnail: artifact.DefaultThumbnailConfig(),
		Sheet:     artifact.DefaultSheetConfig(),
		Workers:   1,
	})
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	lib.SetGenerator(artifact.NewGeneratorWithProber(stubProber{}))

	if _, err := lib.Scan(context.Background()); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	return NewRouter(New(lib)), lib
}

func firstAsset(t *testing.T, lib *library.Library) catalog.Asset {
	t.Helper()
	assets, err := lib.Catalog().FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(assets) == 0 {
		t.Fatal("no assets cataloged")
	}
	return assets[0]
}

func doRequest(router *mux.Router, method, path string, body []byte) *httptest.ResponseRecorder {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/livez", "/readyz"} {
		rec := doRequest(router, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}

	rec := doRequest(router, http.MethodGet, "/healthz", nil)
	var health HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if health.TotalAssets != 2 || health.Unreviewed != 2 {
		t.Errorf("health counts = %+v, want 2 unreviewed assets", health)
	}
}

func TestGetVersion(t *testing.T) {
	router, _ := newTestServer(t)

	rec := doRequest(router, http.MethodGet, "/version", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /version = %d, want 200", rec.Code)
	}

	var info map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decoding version: %v", err)
	}
	if info["version"] == "" {
		t.Error("version field missing")
	}
}

func TestListAssets(t *testing.T) {
	router, _ := newTestServer(t)

	rec := doRequest(router, http.MethodGet, "/api/assets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/assets = %d, want 200", rec.Code)
	}

	var resp struct {
		Assets []catalog.Asset `json:"assets"`
		Count  int             `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if resp.Count != 2 || len(resp.Assets) != 2 {
		t.Errorf("count = %d with %d assets, want 2", resp.Count, len(resp.Assets))
	}
}

func TestGetAsset(t *testing.T) {
	router, lib := newTestServer(t)
	asset := firstAsset(t, lib)

	rec := doRequest(router, http.MethodGet, "/api/assets/"+asset.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET asset = %d, want 200", rec.Code)
	}

	var got catalog.Asset
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding asset: %v", err)
	}
	if got.ID != asset.ID || got.RelativePath != asset.RelativePath {
		t.Errorf("got %+v, want %+v", got, asset)
	}

	if rec := doRequest(router, http.MethodGet, "/api/assets/no-such-id", nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET unknown asset = %d, want 404", rec.Code)
	}
}

func TestUpdateAsset(t *testing.T) {
	router, lib := newTestServer(t)
	asset := firstAsset(t, lib)

	body := []byte(`{"status":"reviewed","tags":["actor:Jane Doe","tag:interview"]}`)
	rec := doRequest(router, http.MethodPut, "/api/assets/"+asset.ID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT asset = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	updated, err := lib.Catalog().FetchByID(context.Background(), asset.ID)
	if err != nil {
		t.Fatalf("FetchByID: %v", err)
	}
	if updated.Status != catalog.StatusReviewed {
		t.Errorf("status = %q, want reviewed", updated.Status)
	}
	if len(updated.Tags) != 2 {
		t.Errorf("tags = %v, want 2 entries", updated.Tags)
	}
}

func TestUpdateAssetValidation(t *testing.T) {
	router, lib := newTestServer(t)
	asset := firstAsset(t, lib)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"invalid status", "/api/assets/" + asset.ID, `{"status":"archived"}`, http.StatusBadRequest},
		{"malformed body", "/api/assets/" + asset.ID, `{broken`, http.StatusBadRequest},
		{"unknown id", "/api/assets/no-such-id", `{"status":"reviewed"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPut, tt.path, []byte(tt.body))
			if rec.Code != tt.want {
				t.Errorf("PUT = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestTriggerScan(t *testing.T) {
	router, _ := newTestServer(t)

	rec := doRequest(router, http.MethodPost, "/api/scan", nil)
	if rec.Code != http.StatusAccepted {
		t.Errorf("POST /api/scan = %d, want 202", rec.Code)
	}
}

func TestThumbnailLifecycle(t *testing.T) {
	router, lib := newTestServer(t)
	asset := firstAsset(t, lib)

	// Not generated yet.
	if rec := doRequest(router, http.MethodGet, "/api/assets/"+asset.ID+"/thumbnail", nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET before generation = %d, want 404", rec.Code)
	}

	if rec := doRequest(router, http.MethodPost, "/api/assets/"+asset.ID+"/thumbnail", nil); rec.Code != http.StatusOK {
		t.Fatalf("POST thumbnail = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec := doRequest(router, http.MethodGet, "/api/assets/"+asset.ID+"/thumbnail", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET thumbnail = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ct)
	}

	if rec := doRequest(router, http.MethodPost, "/api/assets/no-such-id/thumbnail", nil); rec.Code != http.StatusNotFound {
		t.Errorf("POST for unknown asset = %d, want 404", rec.Code)
	}
}

func TestContactSheetLifecycle(t *testing.T) {
	router, lib := newTestServer(t)
	asset := firstAsset(t, lib)

	if rec := doRequest(router, http.MethodPost, "/api/assets/"+asset.ID+"/contact-sheet", nil); rec.Code != http.StatusOK {
		t.Fatalf("POST contact sheet = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	if rec := doRequest(router, http.MethodGet, "/api/assets/"+asset.ID+"/contact-sheet", nil); rec.Code != http.StatusOK {
		t.Errorf("GET contact sheet = %d, want 200", rec.Code)
	}
}

func TestListActorsAndActions(t *testing.T) {
	router, lib := newTestServer(t)
	asset := firstAsset(t, lib)

	asset.Tags = []string{"actor:Jane Doe", "actor:Sam Lee", "tag:interview"}
	if err := lib.Catalog().Update(context.Background(), &asset); err != nil {
		t.Fatalf("Update: %v", err)
	}

	rec := doRequest(router, http.MethodGet, "/api/actors", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/actors = %d, want 200", rec.Code)
	}
	var actors []string
	if err := json.Unmarshal(rec.Body.Bytes(), &actors); err != nil {
		t.Fatalf("decoding actors: %v", err)
	}
	if len(actors) != 2 || actors[0] != "Jane Doe" || actors[1] != "Sam Lee" {
		t.Errorf("actors = %v, want sorted pair", actors)
	}

	rec = doRequest(router, http.MethodGet, "/api/actions", nil)
	var actions []string
	if err := json.Unmarshal(rec.Body.Bytes(), &actions); err != nil {
		t.Fatalf("decoding actions: %v", err)
	}
	if len(actions) != 1 || actions[0] != "interview" {
		t.Errorf("actions = %v, want [interview]", actions)
	}
}
