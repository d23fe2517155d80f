package artifact

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// testOrange is the default synthetic frame color.
var testOrange = color.NRGBA{R: 200, G: 100, B: 50, A: 255}

// fakeProber is an in-memory frame source for exercising the generation
// pipeline without ffmpeg.
type fakeProber struct {
	duration    float64
	durationErr error

	// extract overrides the default solid-color frame when set.
	extract func(second float64) (image.Image, error)

	// calls records every requested extraction timestamp.
	calls []float64
}

func (f *fakeProber) Duration(_ context.Context, _ string) (float64, error) {
	return f.duration, f.durationErr
}

func (f *fakeProber) ExtractFrame(_ context.Context, _ string, second float64) (image.Image, error) {
	f.calls = append(f.calls, second)
	if f.extract != nil {
		return f.extract(second)
	}
	return solidFrame(64, 36, testOrange), nil
}

func solidFrame(w, h int, c color.NRGBA) image.Image {
	return imaging.New(w, h, c)
}

// colorClose compares colors with a small tolerance for resampling and
// JPEG rounding.
func colorClose(a, b color.NRGBA, tolerance int) bool {
	diff := func(x, y uint8) int {
		d := int(x) - int(y)
		if d < 0 {
			d = -d
		}
		return d
	}
	return diff(a.R, b.R) <= tolerance && diff(a.G, b.G) <= tolerance && diff(a.B, b.B) <= tolerance
}
