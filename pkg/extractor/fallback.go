package extractor

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/evanoberholster/imagemeta"
	"github.com/evanoberholster/imagemeta/exif2"

	"github.com/menta2k/resolvekit/pkg/types"
)

// fallbackMetadata reads data through imagemeta, which also understands
// containers goexif cannot open (PNG eXIf, WebP, CR3, RAF, RW2, ORF).
func (e *Extractor) fallbackMetadata(data []byte) types.Metadata {
	meta := types.Metadata{}

	x, err := decodeExifSafe(bytes.NewReader(data))
	if err != nil {
		e.logger.Debug().Err(err).Msg("fallback exif read failed")
		return meta
	}

	meta.SetText(types.Make, x.Make)
	meta.SetText(types.Model, x.Model)
	meta.SetText(types.LensModel, x.LensModel)
	meta.SetNumber(types.FocalLength, parseLoose(fmt.Sprint(x.FocalLength)))
	meta.SetNumber(types.FNumber, parseLoose(fmt.Sprint(x.FNumber)))
	meta.SetNumber(types.ISOSpeedRatings, parseLoose(fmt.Sprint(x.ISOSpeed)))

	exposure := strings.TrimSuffix(strings.TrimSpace(fmt.Sprint(x.ExposureTime)), "s")
	if num, den, ok := splitFraction(exposure); ok {
		setExposureRational(meta, num, den)
	} else {
		meta.SetNumber(types.ExposureTime, parseLoose(exposure))
	}
	return meta
}

// decodeExifSafe protects against panics from the decoder on malformed files
func decodeExifSafe(r io.ReadSeeker) (ex exif2.Exif, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while decoding metadata: %v", rec)
		}
	}()

	ex, err = imagemeta.Decode(r)
	return ex, err
}

// parseLoose reads numbers printed as "2.8", "f/2.8", "50mm" or "1/250"
func parseLoose(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "f/"), "F/")
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "mm"), "s"))
	if num, den, ok := splitFraction(s); ok {
		return float64(num) / float64(den)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

func splitFraction(s string) (num, den int64, ok bool) {
	a, b, found := strings.Cut(s, "/")
	if !found {
		return 0, 0, false
	}
	n, err1 := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
	d, err2 := strconv.ParseInt(strings.TrimSpace(b), 10, 64)
	if err1 != nil || err2 != nil || d <= 0 || n <= 0 {
		return 0, 0, false
	}
	return n, d, true
}
