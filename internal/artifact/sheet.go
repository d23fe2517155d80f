package artifact

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/mranlett/ViLM/internal/catalog"
	"github.com/mranlett/ViLM/internal/logging"
	"github.com/mranlett/ViLM/internal/metrics"
)

// SheetConfig controls contact sheet generation and geometry.
type SheetConfig struct {
	Columns    int
	Rows       int
	CellWidth  int
	CellHeight int
	// Margin is the gutter around and between cells, in pixels.
	Margin int
	// BackgroundGray is the canvas fill, 0 (black) to 1 (white).
	BackgroundGray float64
	// Quality is the JPEG quality (1-100).
	Quality int
	// Timestamps draws a timecode label in each cell.
	Timestamps bool
}

// DefaultSheetConfig returns the standard 4x3 contact sheet settings.
func DefaultSheetConfig() SheetConfig {
	return SheetConfig{
		Columns:        4,
		Rows:           3,
		CellWidth:      320,
		CellHeight:     180,
		Margin:         8,
		BackgroundGray: 0.10,
		Quality:        80,
		Timestamps:     true,
	}
}

// GenerateContactSheet derives and caches a grid contact sheet for the
// asset. An existing cache file makes the call an unconditional no-op;
// regeneration requires removing the cached sheet first.
func (g *Generator) GenerateContactSheet(ctx context.Context, asset *catalog.Asset, root string, cfg SheetConfig) error {
	dest := catalog.ContactSheetPath(root, asset.ID)

	if _, err := os.Stat(dest); err == nil {
		logging.Debug("Contact sheet cache hit: %s", asset.RelativePath)
		metrics.ArtifactsSkipped.WithLabelValues(KindContactSheet).Inc()
		return nil
	}

	start := time.Now()

	if err := catalog.EnsureArtifactDirs(root); err != nil {
		metrics.ArtifactFailures.WithLabelValues(KindContactSheet).Inc()
		return generationErr(KindContactSheet, asset.ID, err)
	}

	src := filepath.Join(root, filepath.FromSlash(asset.RelativePath))

	duration, err := g.prober.Duration(ctx, src)
	if err != nil {
		metrics.ArtifactFailures.WithLabelValues(KindContactSheet).Inc()
		return generationErr(KindContactSheet, asset.ID, err)
	}

	frameCount := cfg.Columns * cfg.Rows
	if frameCount < 1 {
		frameCount = 1
	}

	// A failing frame is skipped, not fatal: the sheet is composed from
	// whatever succeeds.
	var frames []Frame
	for _, second := range sampleSeconds(duration, frameCount) {
		img, err := g.prober.ExtractFrame(ctx, src, second)
		if err != nil {
			logging.Warn("Skipping sheet frame at %.3fs for %s: %v", second, asset.RelativePath, err)
			metrics.ArtifactFramesSkipped.Inc()
			continue
		}
		frames = append(frames, Frame{Image: img, Second: second})
	}

	if len(frames) == 0 {
		metrics.ArtifactFailures.WithLabelValues(KindContactSheet).Inc()
		return generationErr(KindContactSheet, asset.ID,
			fmt.Errorf("no frames could be extracted from %s", asset.RelativePath))
	}

	canvas := ComposeSheet(frames, cfg)

	if err := writeJPEGAtomic(dest, canvas, cfg.Quality); err != nil {
		metrics.ArtifactFailures.WithLabelValues(KindContactSheet).Inc()
		return generationErr(KindContactSheet, asset.ID, err)
	}

	metrics.ArtifactsGenerated.WithLabelValues(KindContactSheet).Inc()
	metrics.ArtifactDuration.WithLabelValues(KindContactSheet).Observe(time.Since(start).Seconds())
	logging.Debug("Contact sheet cached: %s (%d/%d frames)", dest, len(frames), frameCount)
	return nil
}

// sampleSeconds returns frameCount sample timestamps spaced evenly and
// strictly inside a [2%, 98%] window of the duration, avoiding the black
// leading and trailing frames common in real footage. The points are
// strictly interior: never exactly the window start or end, and never 0 or
// the full duration.
func sampleSeconds(duration float64, frameCount int) []float64 {
	if frameCount < 1 {
		frameCount = 1
	}

	start := math.Min(1.0, duration*0.02)
	end := math.Max(start, duration*0.98)

	if frameCount == 1 {
		return []float64{start + (end-start)/2}
	}

	step := (end - start) / float64(frameCount+1)
	seconds := make([]float64, 0, frameCount)
	for i := 1; i <= frameCount; i++ {
		seconds = append(seconds, start+step*float64(i))
	}
	return seconds
}
