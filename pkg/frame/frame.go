// Package frame composes a bordered "photo card" canvas around a source
// image and draws the caption lines into its bottom band.
package frame

import (
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/menta2k/resolvekit/pkg/types"
)

// Caption sizing relative to the bottom band
const (
	PrimaryScale   = 0.25
	SecondaryScale = 0.18
	GapScale       = 0.4
)

// Compositor draws frames. The zero value is not usable; call New.
type Compositor struct {
	fonts  *FontResolver
	logger zerolog.Logger
}

// New creates a Compositor using the platform font candidates
func New() *Compositor {
	return NewWithFonts(NewFontResolver())
}

// NewWithFonts creates a Compositor with a custom font resolver
func NewWithFonts(fonts *FontResolver) *Compositor {
	return &Compositor{fonts: fonts, logger: zerolog.Nop()}
}

// SetLogger attaches a logger to the compositor and its font resolver
func (c *Compositor) SetLogger(l zerolog.Logger) {
	c.logger = l
	c.fonts.SetLogger(l)
}

// Fonts returns the resolver used for captions
func (c *Compositor) Fonts() *FontResolver {
	return c.fonts
}

// Compose returns a new canvas with img pasted inside the border and the two
// caption lines centered in the bottom band. img is not modified.
func (c *Compositor) Compose(img image.Image, camera, settings string, opts types.RenderOptions) *image.NRGBA {
	b := img.Bounds()
	g := Layout(b.Dx(), b.Dy(), opts)
	palette := opts.Border.Palette()

	canvas := imaging.New(g.Width, g.Height, palette.Border)
	// transparent source pixels take the border color
	canvas = imaging.Overlay(canvas, img, g.Offset, 1)

	if (camera == "" && settings == "") || g.Bottom <= 0 {
		return canvas
	}

	settings = strings.ReplaceAll(settings, " | ", "   ")
	bottom := float64(g.Bottom)

	primary, primarySrc := c.fonts.Face(Bold, bottom*PrimaryScale)
	secondary, secondarySrc := c.fonts.Face(Regular, bottom*SecondaryScale)
	c.logger.Debug().Str("primary", primarySrc).Str("secondary", secondarySrc).Msg("caption fonts")

	mainInk := measure(primary, camera)
	subInk := measure(secondary, settings)
	gap := int(float64(mainInk.Dy()) * GapScale)
	total := mainInk.Dy() + gap + subInk.Dy()

	band := g.Band()
	top := band.Min.Y + (g.Bottom-total)/2
	centerX := g.Width / 2

	drawLine(canvas, primary, palette.Primary, camera, mainInk, centerX, top)
	drawLine(canvas, secondary, palette.Secondary, settings, subInk, centerX, top+mainInk.Dy()+gap)

	return canvas
}

// measure returns the ink rectangle of s relative to the dot at the origin
func measure(face font.Face, s string) image.Rectangle {
	if s == "" {
		return image.Rectangle{}
	}
	bounds, _ := font.BoundString(face, s)
	return image.Rect(bounds.Min.X.Floor(), bounds.Min.Y.Floor(), bounds.Max.X.Ceil(), bounds.Max.Y.Ceil())
}

// drawLine draws s so its ink box is horizontally centered on centerX with its top at y
func drawLine(dst *image.NRGBA, face font.Face, c color.Color, s string, ink image.Rectangle, centerX, y int) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(centerX-ink.Dx()/2-ink.Min.X, y-ink.Min.Y),
	}
	d.DrawString(s)
}
