package artifact

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Frame is one sampled video frame with the timestamp it was taken at.
type Frame struct {
	Image  image.Image
	Second float64
}

// SheetSize returns the composed canvas dimensions for a sheet config.
func SheetSize(cfg SheetConfig) (width, height int) {
	width = cfg.Columns*cfg.CellWidth + (cfg.Columns+1)*cfg.Margin
	height = cfg.Rows*cfg.CellHeight + (cfg.Rows+1)*cfg.Margin
	return width, height
}

// ComposeSheet renders frames row-major onto a background-gray canvas.
// Each frame is aspect-filled into its cell: uniformly scaled to cover the
// cell and center-cropped, so cells have no letterboxing. Frames beyond
// Columns*Rows are ignored; missing frames leave their cells empty.
func ComposeSheet(frames []Frame, cfg SheetConfig) *image.NRGBA {
	width, height := SheetSize(cfg)
	gray := uint8(math.Round(cfg.BackgroundGray * 255))
	canvas := imaging.New(width, height, color.NRGBA{R: gray, G: gray, B: gray, A: 255})

	cells := cfg.Columns * cfg.Rows
	for i, frame := range frames {
		if i >= cells {
			break
		}

		cell := imaging.Fill(frame.Image, cfg.CellWidth, cfg.CellHeight, imaging.Center, imaging.Lanczos)
		if cfg.Timestamps {
			drawTimecode(cell, frame.Second)
		}

		col := i % cfg.Columns
		row := i / cfg.Columns
		x := cfg.Margin + col*(cfg.CellWidth+cfg.Margin)
		y := cfg.Margin + row*(cfg.CellHeight+cfg.Margin)
		canvas = imaging.Paste(canvas, cell, image.Pt(x, y))
	}

	return canvas
}

// drawTimecode labels a cell with its capture timestamp, bottom-left,
// white over a one-pixel shadow for legibility on bright frames.
func drawTimecode(cell *image.NRGBA, second float64) {
	label := formatTimecode(second)
	face := basicfont.Face7x13

	const pad = 4
	x := pad
	y := cell.Bounds().Dy() - pad

	shadow := &font.Drawer{
		Dst:  cell,
		Src:  image.NewUniform(color.NRGBA{A: 255}),
		Face: face,
		Dot:  fixed.P(x+1, y+1),
	}
	shadow.DrawString(label)

	text := &font.Drawer{
		Dst:  cell,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	text.DrawString(label)
}

// formatTimecode renders seconds as m:ss, or h:mm:ss from one hour up.
func formatTimecode(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
