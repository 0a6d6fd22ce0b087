// Package extractor decodes photos and reads their capture metadata into the
// normalized vocabulary of pkg/types.
//
// Standard raster files (JPEG, PNG, TIFF, WebP) are decoded directly. Camera
// raw files are "developed" by decoding the largest JPEG rendition the camera
// embedded in the container. Neither path ever returns an error: an unreadable
// file simply yields a nil image.
package extractor

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/resolvekit/pkg/types"
)

// Source is a decoded, upright image plus what the writer needs from the original file
type Source struct {
	Image  image.Image
	Format string
	// Exif is the TIFF-structured EXIF block of a JPEG, PNG or WebP source,
	// without the "Exif\0\0" header
	Exif []byte
}

var standardFormats = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".tif":  "tiff",
	".tiff": "tiff",
	".webp": "webp",
}

var rawFormats = map[string]bool{
	".arw": true, // Sony
	".cr2": true, // Canon
	".cr3": true, // Canon
	".nef": true, // Nikon
	".dng": true, // Adobe DNG
	".raf": true, // Fujifilm
	".orf": true, // Olympus
	".rw2": true, // Panasonic
	".pef": true, // Pentax
}

var registerMakerNotes sync.Once

// IsStandard reports whether path has a standard raster extension
func IsStandard(path string) bool {
	_, ok := standardFormats[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsRaw reports whether path has a camera raw extension
func IsRaw(path string) bool {
	return rawFormats[strings.ToLower(filepath.Ext(path))]
}

// Supported reports whether the extractor handles path at all
func Supported(path string) bool {
	return IsStandard(path) || IsRaw(path)
}

// Extractor reads images and metadata from disk
type Extractor struct {
	logger zerolog.Logger
}

// New creates an Extractor
func New() *Extractor {
	registerMakerNotes.Do(func() {
		exif.RegisterParsers(mknote.All...)
	})
	return &Extractor{logger: zerolog.Nop()}
}

// SetLogger attaches a logger for decode diagnostics
func (e *Extractor) SetLogger(l zerolog.Logger) {
	e.logger = l
}

// Extract decodes path and reads its metadata. Unsupported or unreadable files
// yield a nil Source; metadata is never nil.
func (e *Extractor) Extract(path string) (*Source, types.Metadata) {
	meta := types.Metadata{}
	if !Supported(path) {
		e.logger.Debug().Str("path", path).Msg("unsupported extension")
		return nil, meta
	}

	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Debug().Err(err).Str("path", path).Msg("read failed")
		return nil, meta
	}

	var src *Source
	err = safely(func() error {
		if IsRaw(path) {
			meta = e.rawMetadata(data)
			src, err = e.developRaw(data)
			return err
		}
		meta = e.standardMetadata(data)
		src, err = e.decodeStandard(path, data)
		return err
	})
	if err != nil {
		e.logger.Debug().Err(err).Str("path", path).Msg("decode failed")
		return nil, meta
	}
	return src, meta
}

// ReadMetadata reads only the metadata of path, without decoding pixels
func (e *Extractor) ReadMetadata(path string) types.Metadata {
	meta := types.Metadata{}
	if !Supported(path) {
		return meta
	}

	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.Debug().Err(err).Str("path", path).Msg("read failed")
		return meta
	}

	err = safely(func() error {
		if IsRaw(path) {
			meta = e.rawMetadata(data)
		} else {
			meta = e.standardMetadata(data)
		}
		return nil
	})
	if err != nil {
		e.logger.Debug().Err(err).Str("path", path).Msg("metadata read failed")
	}
	return meta
}

func (e *Extractor) decodeStandard(path string, data []byte) (*Source, error) {
	format := standardFormats[strings.ToLower(filepath.Ext(path))]

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil && format == "webp" {
		img, err = webp.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	src := &Source{Image: img, Format: format}
	switch format {
	case "jpeg":
		src.Exif = rawExif(data)
	case "png", "webp":
		// imaging only auto-orients JPEG
		if block := chunkExif(data); block != nil {
			x, _ := exif.Decode(bytes.NewReader(block))
			src.Image = orient(img, orientation(x))
			src.Exif = block
		}
	}
	return src, nil
}

// rawExif returns the TIFF payload of the APP1 Exif segment, if any
func rawExif(data []byte) []byte {
	x, err := exif.Decode(bytes.NewReader(data))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return nil
	}
	return x.Raw
}

// safely runs fn, converting a decoder panic into an error
func safely(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while decoding: %v", rec)
		}
	}()
	return fn()
}
