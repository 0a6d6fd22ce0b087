// Package resolvekit frames photos with their capture settings and drives
// project automations for DaVinci Resolve.
//
// The framing pipeline has four stages:
//
// 1. Extractor (pkg/extractor): decodes the file and reads its EXIF metadata
// 2. Label (pkg/label): turns metadata into a camera line and a settings line
// 3. Frame (pkg/frame): pastes the image onto a bordered canvas and draws the lines
// 4. Output (pkg/output): writes <stem>_framed.jpg next to the source
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		"github.com/menta2k/resolvekit"
//		"github.com/menta2k/resolvekit/pkg/types"
//	)
//
//	func main() {
//		kit := resolvekit.New()
//
//		out, err := kit.AddFrame("DSC01234.ARW", types.DefaultRenderOptions())
//		if err != nil {
//			log.Fatal(err)
//		}
//		if out == "" {
//			fmt.Println("nothing to frame")
//			return
//		}
//		fmt.Println("saved", out)
//	}
//
// Project automations (settings copy, broadcast presets, settings dump) live
// in pkg/actions and talk to the host application through pkg/host.
package resolvekit

import (
	"image"

	"github.com/rs/zerolog"

	"github.com/menta2k/resolvekit/pkg/extractor"
	"github.com/menta2k/resolvekit/pkg/frame"
	"github.com/menta2k/resolvekit/pkg/label"
	"github.com/menta2k/resolvekit/pkg/output"
	"github.com/menta2k/resolvekit/pkg/types"
)

// Version of the toolkit
const Version = "1.0.0"

// Options configures a Toolkit
type Options struct {
	// FontDirs are searched for the caption fonts after the platform locations
	FontDirs []string
	Logger   zerolog.Logger
}

// Toolkit runs the framing pipeline
type Toolkit struct {
	extractor  *extractor.Extractor
	compositor *frame.Compositor
	writer     *output.Writer
	logger     zerolog.Logger
}

// New creates a Toolkit with default configuration
func New() *Toolkit {
	return NewWithConfig(Options{Logger: zerolog.Nop()})
}

// NewWithConfig creates a Toolkit with custom configuration
func NewWithConfig(opts Options) *Toolkit {
	tk := &Toolkit{
		extractor:  extractor.New(),
		compositor: frame.NewWithFonts(frame.NewFontResolver(opts.FontDirs...)),
		writer:     output.New(),
		logger:     opts.Logger,
	}
	tk.extractor.SetLogger(opts.Logger)
	tk.compositor.SetLogger(opts.Logger)
	tk.writer.SetLogger(opts.Logger)
	return tk
}

// Fonts returns the resolver the caption text is drawn with
func (tk *Toolkit) Fonts() *frame.FontResolver {
	return tk.compositor.Fonts()
}

// ImageInfo contains basic image dimensions
type ImageInfo struct {
	Width       int     `json:"width" yaml:"width"`
	Height      int     `json:"height" yaml:"height"`
	AspectRatio float64 `json:"aspect_ratio" yaml:"aspect_ratio"`
}

// Report describes what AddFrame would draw for a file
type Report struct {
	Path     string          `json:"path" yaml:"path"`
	Format   string          `json:"format,omitempty" yaml:"format,omitempty"`
	Image    *ImageInfo      `json:"image,omitempty" yaml:"image,omitempty"`
	Metadata types.Metadata  `json:"metadata" yaml:"metadata"`
	Camera   string          `json:"camera" yaml:"camera"`
	Settings string          `json:"settings" yaml:"settings"`
	Geometry *frame.Geometry `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Output   string          `json:"output" yaml:"output"`
}

// Extract decodes path and reads its metadata; the source is nil when nothing can be framed
func (tk *Toolkit) Extract(path string) (*extractor.Source, types.Metadata) {
	return tk.extractor.Extract(path)
}

// Labels reads only the metadata of path and formats the caption lines
func (tk *Toolkit) Labels(path string) (camera, settings string) {
	return label.Resolve(tk.extractor.ReadMetadata(path))
}

// Compose draws the frame for an already decoded image
func (tk *Toolkit) Compose(img image.Image, camera, settings string, opts types.RenderOptions) *image.NRGBA {
	return tk.compositor.Compose(img, camera, settings, opts)
}

// GetImageInfo returns basic information about an image
func GetImageInfo(img image.Image) ImageInfo {
	b := img.Bounds()
	info := ImageInfo{Width: b.Dx(), Height: b.Dy()}
	if info.Height > 0 {
		info.AspectRatio = float64(info.Width) / float64(info.Height)
	}
	return info
}

// AddFrame frames the photo at path and returns the written output path.
// An unsupported or unreadable source returns "" and no error.
func (tk *Toolkit) AddFrame(path string, opts types.RenderOptions) (string, error) {
	src, meta := tk.extractor.Extract(path)
	if src == nil {
		tk.logger.Info().Str("path", path).Msg("nothing to frame")
		return "", nil
	}

	camera, settings := label.Resolve(meta)
	if opts.Labels != nil {
		camera, settings = opts.Labels.Camera, opts.Labels.Settings
	}

	canvas := tk.compositor.Compose(src.Image, camera, settings, opts)
	out, err := tk.writer.Write(canvas, path, src.Exif)
	if err != nil {
		return "", err
	}

	tk.logger.Info().Str("path", path).Str("output", out).Str("camera", camera).Msg("framed")
	return out, nil
}

// Inspect reports metadata, labels and canvas geometry for path without writing anything
func (tk *Toolkit) Inspect(path string, opts types.RenderOptions) Report {
	src, meta := tk.extractor.Extract(path)
	camera, settings := label.Resolve(meta)

	r := Report{
		Path:     path,
		Metadata: meta,
		Camera:   camera,
		Settings: settings,
	}
	if src != nil {
		info := GetImageInfo(src.Image)
		g := frame.Layout(info.Width, info.Height, opts)
		r.Format = src.Format
		r.Image = &info
		r.Geometry = &g
		r.Output = output.Path(path)
	}
	return r
}

// GetVersion returns the toolkit version
func GetVersion() string {
	return Version
}
