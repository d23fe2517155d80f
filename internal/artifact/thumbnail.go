package artifact

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/mranlett/ViLM/internal/catalog"
	"github.com/mranlett/ViLM/internal/logging"
	"github.com/mranlett/ViLM/internal/metrics"
)

// shortVideoCutoff is the duration boundary between the midpoint heuristic
// and the 10% heuristic. Exactly 20s takes the 10% branch.
const shortVideoCutoff = 20.0

// ThumbnailConfig controls thumbnail generation.
type ThumbnailConfig struct {
	// MaxSize bounds both thumbnail dimensions; aspect ratio is preserved.
	MaxSize int
	// Quality is the JPEG quality (1-100).
	Quality int
	// Overwrite regenerates the thumbnail even when a cached one exists.
	Overwrite bool
}

// DefaultThumbnailConfig returns the standard thumbnail settings.
func DefaultThumbnailConfig() ThumbnailConfig {
	return ThumbnailConfig{
		MaxSize: 640,
		Quality: 80,
	}
}

// GenerateThumbnail derives and caches a representative single-frame
// thumbnail for the asset. An existing cache file makes the call a no-op
// unless cfg.Overwrite is set.
func (g *Generator) GenerateThumbnail(ctx context.Context, asset *catalog.Asset, root string, cfg ThumbnailConfig) error {
	dest := catalog.ThumbnailPath(root, asset.ID)

	if !cfg.Overwrite {
		if _, err := os.Stat(dest); err == nil {
			logging.Debug("Thumbnail cache hit: %s", asset.RelativePath)
			metrics.ArtifactsSkipped.WithLabelValues(KindThumbnail).Inc()
			return nil
		}
	}

	start := time.Now()

	if err := catalog.EnsureArtifactDirs(root); err != nil {
		metrics.ArtifactFailures.WithLabelValues(KindThumbnail).Inc()
		return generationErr(KindThumbnail, asset.ID, err)
	}

	src := filepath.Join(root, filepath.FromSlash(asset.RelativePath))

	duration, err := g.prober.Duration(ctx, src)
	if err != nil {
		metrics.ArtifactFailures.WithLabelValues(KindThumbnail).Inc()
		return generationErr(KindThumbnail, asset.ID, err)
	}

	second := captureSecond(duration)
	logging.Debug("Thumbnail frame for %s: %.3fs of %.3fs", asset.RelativePath, second, duration)

	frame, err := g.prober.ExtractFrame(ctx, src, second)
	if err != nil {
		metrics.ArtifactFailures.WithLabelValues(KindThumbnail).Inc()
		return generationErr(KindThumbnail, asset.ID, err)
	}

	thumb := imaging.Fit(frame, cfg.MaxSize, cfg.MaxSize, imaging.Lanczos)

	if err := writeJPEGAtomic(dest, thumb, cfg.Quality); err != nil {
		metrics.ArtifactFailures.WithLabelValues(KindThumbnail).Inc()
		return generationErr(KindThumbnail, asset.ID, err)
	}

	metrics.ArtifactsGenerated.WithLabelValues(KindThumbnail).Inc()
	metrics.ArtifactDuration.WithLabelValues(KindThumbnail).Observe(time.Since(start).Seconds())
	logging.Debug("Thumbnail cached: %s", dest)
	return nil
}

// captureSecond picks the thumbnail capture timestamp. Short clips use the
// midpoint; longer content seeks to 10%, clamped away from the first and
// last second to avoid black frames and slates.
func captureSecond(duration float64) float64 {
	if duration < shortVideoCutoff {
		return duration * 0.5
	}

	second := duration * 0.10
	if second < 1.0 {
		second = 1.0
	}
	if limit := duration - 1.0; second > limit {
		second = limit
	}
	return second
}
