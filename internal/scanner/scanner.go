package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mranlett/ViLM/internal/catalog"
	"github.com/mranlett/ViLM/internal/logging"
	"github.com/mranlett/ViLM/internal/metrics"
)

// videoExtensions maps supported (lowercased) video file extensions.
var videoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".m4v": true,
}

// Result summarizes a completed scan.
type Result struct {
	// Registered is the number of video files submitted for registration.
	Registered int `json:"registered"`
	// Skipped is the number of entries skipped due to enumeration errors.
	Skipped int `json:"skipped"`
	// Duration is the wall time of the walk.
	Duration time.Duration `json:"duration"`
}

// Scan recursively enumerates root and registers every supported video
// file in the catalog. Per-entry enumeration errors are logged and skipped;
// only storage failures abort the scan. Cancelling ctx stops the walk
// early without error.
func Scan(ctx context.Context, cat *catalog.Catalog, root string) (*Result, error) {
	start := time.Now()
	metrics.ScanRunsTotal.Inc()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	stdRoot := filepath.ToSlash(absRoot)
	catalogDir := catalog.Dir(absRoot)

	logging.Info("Scanning library %s", absRoot)

	result := &Result{}
	walkErr := filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return fs.SkipAll
		default:
		}

		if err != nil {
			logging.Warn("Error accessing path %s: %v", path, err)
			result.Skipped++
			metrics.ScanEntriesSkipped.Inc()
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			// The derived-artifact cache must never be indexed as content,
			// independent of the hidden-entry rule below.
			if path == catalogDir {
				return filepath.SkipDir
			}
			if path != absRoot && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(info.Name(), ".") {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(info.Name()))
		if !videoExtensions[ext] {
			return nil
		}

		asset := &catalog.Asset{
			ID:           uuid.NewString(),
			RelativePath: relativePath(stdRoot, path),
			FileName:     info.Name(),
			Status:       catalog.StatusUnreviewed,
			CreatedAt:    time.Now().UTC(),
			Tags:         []string{},
		}

		if err := cat.InsertIfAbsent(ctx, asset); err != nil {
			return err
		}
		result.Registered++
		return nil
	})

	if walkErr != nil && !errors.Is(walkErr, fs.SkipAll) {
		return result, walkErr
	}

	result.Duration = time.Since(start)
	metrics.ScanLastRunDuration.Set(result.Duration.Seconds())
	metrics.ScanFilesRegistered.Add(float64(result.Registered))

	logging.Info("Scan complete: %d files registered, %d entries skipped in %v",
		result.Registered, result.Skipped, result.Duration)
	return result, nil
}

// relativePath strips the standardized root prefix from the standardized
// file path. When the file path does not share the prefix (symlink
// resolution oddities), the bare file name is used instead.
func relativePath(stdRoot, path string) string {
	std := filepath.ToSlash(path)
	prefix := strings.TrimSuffix(stdRoot, "/") + "/"
	if rel, ok := strings.CutPrefix(std, prefix); ok {
		return rel
	}
	return filepath.Base(path)
}
