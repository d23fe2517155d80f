package library

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mranlett/ViLM/internal/artifact"
	"github.com/mranlett/ViLM/internal/catalog"
	"github.com/mranlett/ViLM/internal/logging"
	"github.com/mranlett/ViLM/internal/scanner"
	"github.com/mranlett/ViLM/internal/workers"
)

const maxArtifactWorkers = 8

// ErrBusy is returned when a scan or artifact run is already in flight.
var ErrBusy = errors.New("library: operation already running")

// Config carries the settings a Library needs for its root and its
// artifact generation passes.
type Config struct {
	Root      string
	Thumbnail artifact.ThumbnailConfig
	Sheet     artifact.SheetConfig

	// Workers bounds the artifact pool; zero means size from the CPU
	// count.
	Workers int
}

// Library ties a catalog, a scanner, and an artifact generator together
// over one media root.
type Library struct {
	cat  *catalog.Catalog
	gen  *artifact.Generator
	cfg  Config
	root string

	scanning   atomic.Bool
	generating atomic.Bool
	progress   atomic.Value
}

// Progress is a point-in-time snapshot of an artifact run.
type Progress struct {
	Thumbnails int64     `json:"thumbnails"`
	Sheets     int64     `json:"sheets"`
	Failures   int64     `json:"failures"`
	Total      int64     `json:"total"`
	Running    bool      `json:"running"`
	StartedAt  time.Time `json:"startedAt,omitempty"`
}

// ArtifactResult summarizes a completed artifact run.
type ArtifactResult struct {
	Thumbnails int           `json:"thumbnails"`
	Sheets     int           `json:"sheets"`
	Failures   int           `json:"failures"`
	Duration   time.Duration `json:"-"`
}

// Open opens (creating if needed) the catalog under root and returns a
// Library ready to scan and generate.
func Open(ctx context.Context, cfg Config) (*Library, error) {
	cat, err := catalog.Open(ctx, cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("opening catalog for %s: %w", cfg.Root, err)
	}

	lib := &Library{
		cat:  cat,
		gen:  artifact.NewGenerator(),
		cfg:  cfg,
		root: cat.Root(),
	}
	lib.progress.Store(Progress{})
	return lib, nil
}

// SetGenerator replaces the artifact generator. Used to substitute a
// synthetic frame source in tests.
func (l *Library) SetGenerator(g *artifact.Generator) {
	l.gen = g
}

// Catalog exposes the underlying catalog handle.
func (l *Library) Catalog() *catalog.Catalog {
	return l.cat
}

// Root returns the normalized media root this library serves.
func (l *Library) Root() string {
	return l.root
}

// Close releases the catalog handle.
func (l *Library) Close() error {
	return l.cat.Close()
}

// Scan walks the media root and registers new video files. Only one
// scan runs at a time; a concurrent trigger returns ErrBusy.
func (l *Library) Scan(ctx context.Context) (*scanner.Result, error) {
	if !l.scanning.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer l.scanning.Store(false)

	return scanner.Scan(ctx, l.cat, l.root)
}

// Scanning reports whether a scan is currently in flight.
func (l *Library) Scanning() bool {
	return l.scanning.Load()
}

// GenerateArtifacts produces thumbnails and contact sheets for every
// cataloged asset, skipping work that already exists on disk. Assets are
// processed by a bounded worker pool; per-asset failures are logged and
// counted while the run continues. Only one run is active at a time.
func (l *Library) GenerateArtifacts(ctx context.Context) (*ArtifactResult, error) {
	if !l.generating.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer l.generating.Store(false)

	started := time.Now()
	assets, err := l.cat.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing assets for artifact run: %w", err)
	}

	numWorkers := l.cfg.Workers
	if numWorkers <= 0 {
		numWorkers = workers.ForMixed(maxArtifactWorkers)
	}
	logging.Info("Artifact run starting: %d assets, %d workers", len(assets), numWorkers)

	var thumbnails, sheets, failures atomic.Int64
	l.progress.Store(Progress{Total: int64(len(assets)), Running: true, StartedAt: started})

	jobs := make(chan catalog.Asset)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for asset := range jobs {
				if err := l.gen.GenerateThumbnail(ctx, &asset, l.root, l.cfg.Thumbnail); err != nil {
					logging.Warn("Thumbnail failed for %s: %v", asset.RelativePath, err)
					failures.Add(1)
				} else {
					thumbnails.Add(1)
				}

				if err := l.gen.GenerateContactSheet(ctx, &asset, l.root, l.cfg.Sheet); err != nil {
					logging.Warn("Contact sheet failed for %s: %v", asset.RelativePath, err)
					failures.Add(1)
				} else {
					sheets.Add(1)
				}

				l.progress.Store(Progress{
					Thumbnails: thumbnails.Load(),
					Sheets:     sheets.Load(),
					Failures:   failures.Load(),
					Total:      int64(len(assets)),
					Running:    true,
					StartedAt:  started,
				})
			}
		}()
	}

feed:
	for _, asset := range assets {
		select {
		case jobs <- asset:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	result := &ArtifactResult{
		Thumbnails: int(thumbnails.Load()),
		Sheets:     int(sheets.Load()),
		Failures:   int(failures.Load()),
		Duration:   time.Since(started),
	}
	l.progress.Store(Progress{
		Thumbnails: thumbnails.Load(),
		Sheets:     sheets.Load(),
		Failures:   failures.Load(),
		Total:      int64(len(assets)),
	})

	if ctx.Err() != nil {
		logging.Warn("Artifact run cancelled after %v: %d thumbnails, %d sheets, %d failures",
			result.Duration.Round(time.Millisecond), result.Thumbnails, result.Sheets, result.Failures)
		return result, ctx.Err()
	}
	logging.Info("Artifact run finished in %v: %d thumbnails, %d sheets, %d failures",
		result.Duration.Round(time.Millisecond), result.Thumbnails, result.Sheets, result.Failures)
	return result, nil
}

// GenerateThumbnailFor produces the thumbnail for a single asset,
// optionally overwriting an existing file.
func (l *Library) GenerateThumbnailFor(ctx context.Context, id string, overwrite bool) error {
	asset, err := l.cat.FetchByID(ctx, id)
	if err != nil {
		return err
	}
	cfg := l.cfg.Thumbnail
	cfg.Overwrite = overwrite
	return l.gen.GenerateThumbnail(ctx, asset, l.root, cfg)
}

// GenerateContactSheetFor produces the contact sheet for a single asset.
// Existing sheets are left untouched.
func (l *Library) GenerateContactSheetFor(ctx context.Context, id string) error {
	asset, err := l.cat.FetchByID(ctx, id)
	if err != nil {
		return err
	}
	return l.gen.GenerateContactSheet(ctx, asset, l.root, l.cfg.Sheet)
}

// Generating reports whether an artifact run is currently in flight.
func (l *Library) Generating() bool {
	return l.generating.Load()
}

// Progress returns the latest artifact run snapshot.
func (l *Library) Progress() Progress {
	if p, ok := l.progress.Load().(Progress); ok {
		return p
	}
	return Progress{}
}
