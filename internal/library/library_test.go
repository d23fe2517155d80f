package library

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/mranlett/ViLM/internal/artifact"
	"github.com/mranlett/ViLM/internal/catalog"
)

// stubProber serves solid-color frames so artifact runs work without
// ffmpeg. Safe for concurrent use by pool workers.
type stubProber struct {
	mu          sync.Mutex
	duration    float64
	durationErr error
	calls       int
}

func (p *stubProber) Duration(_ context.Context, _ string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.durationErr != nil {
		return 0, p.durationErr
	}
	return p.duration, nil
}

func (p *stubProber) ExtractFrame(_ context.Context, _ string, _ float64) (image.Image, error) {
	return imaging.New(64, 36, color.NRGBA{R: 90, G: 140, B: 60, A: 255}), nil
}

func writeVideo(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte("not a real video"), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func openTestLibrary(t *testing.T, root string) *Library {
	t.Helper()
	lib, err := Open(context.Background(), Config{
		Root:      root,
		Thumbnail: artifact.DefaultThumbnailConfig(),
		Sheet:     artifact.DefaultSheetConfig(),
		Workers:   2,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return lib
}

func TestScanRegistersVideos(t *testing.T) {
	root := t.TempDir()
	writeVideo(t, root, "a.mp4")
	writeVideo(t, root, "clips/b.mov")
	writeVideo(t, root, "notes.txt")

	lib := openTestLibrary(t, root)

	result, err := lib.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if result.Registered != 2 {
		t.Errorf("Registered = %d, want 2", result.Registered)
	}

	assets, err := lib.Catalog().FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(assets) != 2 {
		t.Errorf("cataloged %d assets, want 2", len(assets))
	}
}

func TestScanRejectsConcurrentRun(t *testing.T) {
	lib := openTestLibrary(t, t.TempDir())

	lib.scanning.Store(true)
	if _, err := lib.Scan(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("Scan while scanning = %v, want ErrBusy", err)
	}
	lib.scanning.Store(false)

	if _, err := lib.Scan(context.Background()); err != nil {
		t.Errorf("Scan after release: %v", err)
	}
}

func TestGenerateArtifactsWritesBoth(t *testing.T) {
	root := t.TempDir()
	writeVideo(t, root, "a.mp4")
	writeVideo(t, root, "clips/b.mp4")

	lib := openTestLibrary(t, root)
	lib.SetGenerator(artifact.NewGeneratorWithProber(&stubProber{duration: 60}))

	if _, err := lib.Scan(context.Background()); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	result, err := lib.GenerateArtifacts(context.Background())
	if err != nil {
		t.Fatalf("GenerateArtifacts: %v", err)
	}
	if result.Thumbnails != 2 || result.Sheets != 2 || result.Failures != 0 {
		t.Errorf("result = %+v, want 2 thumbnails, 2 sheets, 0 failures", result)
	}

	assets, err := lib.Catalog().FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	for _, asset := range assets {
		for _, path := range []string{
			catalog.ThumbnailPath(lib.Root(), asset.ID),
			catalog.ContactSheetPath(lib.Root(), asset.ID),
		} {
			if _, err := os.Stat(path); err != nil {
				t.Errorf("artifact missing for %s: %v", asset.RelativePath, err)
			}
		}
	}

	progress := lib.Progress()
	if progress.Running {
		t.Error("progress still marked running after completion")
	}
	if progress.Thumbnails != 2 || progress.Sheets != 2 {
		t.Errorf("final progress = %+v", progress)
	}
}

func TestGenerateArtifactsCountsFailures(t *testing.T) {
	root := t.TempDir()
	writeVideo(t, root, "a.mp4")
	writeVideo(t, root, "b.mp4")

	lib := openTestLibrary(t, root)
	lib.SetGenerator(artifact.NewGeneratorWithProber(&stubProber{durationErr: errors.New("probe exploded")}))

	if _, err := lib.Scan(context.Background()); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	// Per-asset failures must not fail the run.
	result, err := lib.GenerateArtifacts(context.Background())
	if err != nil {
		t.Fatalf("GenerateArtifacts: %v", err)
	}
	// Thumbnail and sheet both fail per asset.
	if result.Failures != 4 {
		t.Errorf("Failures = %d, want 4", result.Failures)
	}
	if result.Thumbnails != 0 || result.Sheets != 0 {
		t.Errorf("result = %+v, want no successes", result)
	}
}

func TestGenerateArtifactsRejectsConcurrentRun(t *testing.T) {
	lib := openTestLibrary(t, t.TempDir())

	lib.generating.Store(true)
	if _, err := lib.GenerateArtifacts(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("GenerateArtifacts while generating = %v, want ErrBusy", err)
	}
}

func TestGenerateArtifactsCancelled(t *testing.T) {
	root := t.TempDir()
	writeVideo(t, root, "a.mp4")

	lib := openTestLibrary(t, root)
	lib.SetGenerator(artifact.NewGeneratorWithProber(&stubProber{duration: 30}))

	if _, err := lib.Scan(context.Background()); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := lib.GenerateArtifacts(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("GenerateArtifacts with cancelled ctx = %v, want context.Canceled", err)
	}
}
