package frame

import (
	"image"
	"math"

	"github.com/menta2k/resolvekit/pkg/types"
)

// PolaroidFactor is the bottom border height relative to the uniform border
const PolaroidFactor = 3.6

// Geometry describes the canvas produced for a source of a given size
type Geometry struct {
	Uniform int         `json:"uniform"`
	Bottom  int         `json:"bottom"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Offset  image.Point `json:"offset"`
}

// Band returns the rectangle below the pasted image that holds the caption
func (g Geometry) Band() image.Rectangle {
	return image.Rect(0, g.Height-g.Bottom, g.Width, g.Height)
}

// Layout computes border sizes from the shorter side of a w×h source
func Layout(w, h int, opts types.RenderOptions) Geometry {
	ratio := opts.BorderRatio
	if ratio < 0 || math.IsNaN(ratio) {
		ratio = 0
	}

	uniform := int(math.Round(float64(min(w, h)) * ratio))
	bottom := uniform
	if opts.Polaroid {
		bottom = int(math.Round(float64(uniform) * PolaroidFactor))
	}

	return Geometry{
		Uniform: uniform,
		Bottom:  bottom,
		Width:   w + 2*uniform,
		Height:  h + uniform + bottom,
		Offset:  image.Pt(uniform, uniform),
	}
}
