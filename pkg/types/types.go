package types

import (
	"image/color"
	"math"
	"strings"
)

// Field names the normalized metadata vocabulary shared by the extractor and the formatter
type Field string

const (
	Model              Field = "Model"
	Make               Field = "Make"
	LensModel          Field = "LensModel"
	FocalLength        Field = "FocalLength"
	FNumber            Field = "FNumber"
	ISOSpeedRatings    Field = "ISOSpeedRatings"
	ExposureTime       Field = "ExposureTime"
	ExposureTimeString Field = "ExposureTimeString"
)

// Fields lists the vocabulary in display order
var Fields = []Field{
	Model, Make, LensModel, FocalLength, FNumber, ISOSpeedRatings, ExposureTime, ExposureTimeString,
}

// Metadata maps a field to a string or float64 value. A missing key means unknown.
type Metadata map[Field]any

// SetText stores a trimmed string, dropping empty values
func (m Metadata) SetText(f Field, v string) {
	v = strings.TrimSpace(strings.Trim(v, "\x00"))
	if v == "" {
		return
	}
	m[f] = v
}

// SetNumber stores a float, dropping zero, NaN and infinite values
func (m Metadata) SetNumber(f Field, v float64) {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	m[f] = v
}

// Text returns the string value of f, or "" when absent
func (m Metadata) Text(f Field) string {
	if s, ok := m[f].(string); ok {
		return s
	}
	return ""
}

// Number returns the numeric value of f, or 0 when absent
func (m Metadata) Number(f Field) float64 {
	if n, ok := m[f].(float64); ok {
		return n
	}
	return 0
}

// Has reports whether f is present
func (m Metadata) Has(f Field) bool {
	_, ok := m[f]
	return ok
}

// Merge copies keys from other that m does not have yet
func (m Metadata) Merge(other Metadata) {
	for k, v := range other {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
}

// BorderColor selects the frame palette
type BorderColor string

const (
	Light BorderColor = "white"
	Dark  BorderColor = "black"
)

// Palette holds the colors implied by a BorderColor
type Palette struct {
	Border    color.NRGBA
	Primary   color.NRGBA
	Secondary color.NRGBA
}

// Palette returns the border and text colors for b. Unknown values use Light.
func (b BorderColor) Palette() Palette {
	if b == Dark {
		return Palette{
			Border:    color.NRGBA{0, 0, 0, 255},
			Primary:   color.NRGBA{255, 255, 255, 255},
			Secondary: color.NRGBA{200, 200, 200, 255},
		}
	}
	return Palette{
		Border:    color.NRGBA{255, 255, 255, 255},
		Primary:   color.NRGBA{0, 0, 0, 255},
		Secondary: color.NRGBA{80, 80, 80, 255},
	}
}

// ParseBorderColor maps user input such as "White" or "black" to a BorderColor
func ParseBorderColor(s string) BorderColor {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "dark":
		return Dark
	default:
		return Light
	}
}

// Labels overrides the text drawn in the bottom band
type Labels struct {
	Camera   string `json:"camera" yaml:"camera"`
	Settings string `json:"settings" yaml:"settings"`
}

// RenderOptions controls how a frame is composed
type RenderOptions struct {
	Border      BorderColor
	BorderRatio float64
	Polaroid    bool
	Labels      *Labels
}

// DefaultRenderOptions matches the dialog defaults: white, 5%, polaroid
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Border:      Light,
		BorderRatio: 0.05,
		Polaroid:    true,
	}
}
