package artifact

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Artifact kinds, used in errors and metric labels.
const (
	KindThumbnail    = "thumbnail"
	KindContactSheet = "contact_sheet"
)

// GenerationError is a hard artifact failure: frame extraction for a
// thumbnail, directory creation, encoding, or writing went wrong. It is
// fatal for that asset's artifact only; callers decide whether to continue
// with the next asset.
type GenerationError struct {
	Kind    string
	AssetID string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation for asset %s: %v", e.Kind, e.AssetID, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func generationErr(kind, assetID string, err error) error {
	return &GenerationError{Kind: kind, AssetID: assetID, Err: err}
}

// Generator derives thumbnails and contact sheets from video files.
type Generator struct {
	prober Prober
}

// NewGenerator returns a Generator backed by ffmpeg/ffprobe.
func NewGenerator() *Generator {
	return &Generator{prober: &FFmpegProber{}}
}

// NewGeneratorWithProber returns a Generator using a custom frame source.
func NewGeneratorWithProber(p Prober) *Generator {
	return &Generator{prober: p}
}

// writeJPEGAtomic encodes img as JPEG and moves it into place with a
// rename, so a crash mid-write never leaves a truncated cache file.
func writeJPEGAtomic(dest string, img image.Image, quality int) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*.jpg")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to flush JPEG: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move JPEG into place: %w", err)
	}
	return nil
}
