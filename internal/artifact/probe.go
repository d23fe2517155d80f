package artifact

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/mranlett/ViLM/internal/logging"
)

// Prober reads media properties and frames from a video file. The
// production implementation shells out to ffprobe/ffmpeg; tests substitute
// synthetic frame sources.
type Prober interface {
	// Duration returns the video duration in seconds.
	Duration(ctx context.Context, path string) (float64, error)
	// ExtractFrame decodes a single frame near the given second.
	ExtractFrame(ctx context.Context, path string, second float64) (image.Image, error)
}

// FFmpegProber extracts durations and frames with the ffprobe and ffmpeg
// binaries found on PATH.
type FFmpegProber struct{}

// Duration queries the container duration via ffprobe.
func (p *FFmpegProber) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe error: %w - %s", err, stderr.String())
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe duration output %q: %w", stdout.String(), err)
	}
	return duration, nil
}

// ExtractFrame decodes one frame near the given second as PNG via an
// image2pipe. The fast pre-input seek lands on the nearest keyframe, which
// is the small time tolerance callers expect. If the seeked extraction
// fails (very short or oddly indexed files), retry once from the start of
// the stream.
func (p *FFmpegProber) ExtractFrame(ctx context.Context, path string, second float64) (image.Image, error) {
	out, err := runFrameExtract(ctx, path, fmt.Sprintf("%.3f", second))
	if err != nil {
		logging.Debug("Seeked frame extraction failed for %s at %.3fs: %v, retrying from stream start", path, second, err)
		out, err = runFrameExtract(ctx, path, "")
		if err != nil {
			return nil, err
		}
	}

	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("failed to decode extracted frame: %w", err)
	}
	return img, nil
}

func runFrameExtract(ctx context.Context, path, seek string) ([]byte, error) {
	args := []string{}
	if seek != "" {
		args = append(args, "-ss", seek)
	}
	args = append(args,
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", path)
	}
	return stdout.Bytes(), nil
}
