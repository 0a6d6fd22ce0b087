package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/menta2k/resolvekit/pkg/types"
)

var errNoPreview = errors.New("no embedded JPEG rendition")

var soi = []byte{0xFF, 0xD8, 0xFF}

// rawMetadata runs the fuzzy reader over TIFF-based raws and falls back to
// imagemeta for everything else
func (e *Extractor) rawMetadata(data []byte) types.Metadata {
	meta := types.Metadata{}

	x, err := exif.Decode(bytes.NewReader(data))
	if x != nil && (err == nil || !exif.IsCriticalError(err)) {
		meta = fuzzyMetadata(x)
	} else if err != nil {
		e.logger.Debug().Err(err).Msg("raw container not TIFF based")
	}

	if len(meta) < len(types.Fields)-1 {
		meta.Merge(e.fallbackMetadata(data))
	}
	return meta
}

// developRaw decodes the largest baseline JPEG embedded in a raw container
// and rotates it upright
func (e *Extractor) developRaw(data []byte) (*Source, error) {
	offset, w, h := largestPreview(data)
	if offset < 0 {
		return nil, errNoPreview
	}

	img, err := imaging.Decode(bytes.NewReader(data[offset:]))
	if err != nil {
		return nil, fmt.Errorf("failed to decode embedded rendition: %w", err)
	}
	e.logger.Debug().Int("width", w).Int("height", h).Int("offset", offset).Msg("developed raw preview")

	x, _ := exif.Decode(bytes.NewReader(data))
	return &Source{Image: orient(img, orientation(x)), Format: "raw"}, nil
}

// largestPreview scans for JPEG start markers and returns the offset of the
// decodable rendition with the most pixels, or -1
func largestPreview(data []byte) (offset, width, height int) {
	offset = -1
	best := 0
	for i := 0; i < len(data); {
		j := bytes.Index(data[i:], soi)
		if j < 0 {
			break
		}
		at := i + j
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data[at:]))
		if err == nil && cfg.Width*cfg.Height > best {
			best = cfg.Width * cfg.Height
			offset, width, height = at, cfg.Width, cfg.Height
		}
		i = at + len(soi)
	}
	return offset, width, height
}

// orient applies an EXIF orientation value to img
func orient(img image.Image, o int) image.Image {
	switch o {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
