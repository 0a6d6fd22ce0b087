package extractor

import (
	"bytes"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/menta2k/resolvekit/pkg/types"
)

// standardMetadata reads named tags; a missing aperture triggers the imagemeta fallback
func (e *Extractor) standardMetadata(data []byte) types.Metadata {
	meta := types.Metadata{}

	r := bytes.NewReader(data)
	if block := chunkExif(data); block != nil {
		r = bytes.NewReader(block)
	}
	x, err := exif.Decode(r)
	if x != nil && (err == nil || !exif.IsCriticalError(err)) {
		readNamed(x, meta)
	} else if err != nil {
		e.logger.Debug().Err(err).Msg("no primary exif block")
	}

	if !meta.Has(types.FNumber) {
		meta.Merge(e.fallbackMetadata(data))
	}
	if x != nil && !meta.Has(types.FNumber) {
		if tag, err := x.Get(exif.ApertureValue); err == nil {
			if av, ok := tagFloat(tag); ok {
				meta.SetNumber(types.FNumber, apexAperture(av))
			}
		}
	}
	return meta
}

func readNamed(x *exif.Exif, meta types.Metadata) {
	text := func(f types.Field, name exif.FieldName) {
		if tag, err := x.Get(name); err == nil {
			if s, err := tag.StringVal(); err == nil {
				meta.SetText(f, s)
			}
		}
	}
	number := func(f types.Field, name exif.FieldName) {
		if tag, err := x.Get(name); err == nil {
			if v, ok := tagFloat(tag); ok {
				meta.SetNumber(f, v)
			}
		}
	}

	text(types.Make, exif.Make)
	text(types.Model, exif.Model)
	text(types.LensModel, exif.LensModel)
	number(types.FocalLength, exif.FocalLength)
	number(types.FNumber, exif.FNumber)
	number(types.ISOSpeedRatings, exif.ISOSpeedRatings)

	if tag, err := x.Get(exif.ExposureTime); err == nil {
		setExposure(meta, tag)
	}
}

// tagFloat converts the first value of a numeric or numeric-string tag
func tagFloat(tag *tiff.Tag) (float64, bool) {
	switch tag.Format() {
	case tiff.RatVal:
		num, den, err := tag.Rat2(0)
		if err != nil || den == 0 {
			return 0, false
		}
		return float64(num) / float64(den), true
	case tiff.IntVal:
		v, err := tag.Int64(0)
		if err != nil {
			return 0, false
		}
		return float64(v), true
	case tiff.FloatVal:
		v, err := tag.Float(0)
		if err != nil {
			return 0, false
		}
		return v, true
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return v, err == nil
	}
	return 0, false
}

// setExposure stores the exposure time, keeping "1/N" when the reduced rational is a unit fraction
func setExposure(meta types.Metadata, tag *tiff.Tag) {
	if tag.Format() != tiff.RatVal {
		if v, ok := tagFloat(tag); ok {
			meta.SetNumber(types.ExposureTime, v)
		}
		return
	}

	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 || num <= 0 {
		return
	}
	setExposureRational(meta, num, den)
}

func setExposureRational(meta types.Metadata, num, den int64) {
	r := big.NewRat(num, den)
	n, d := r.Num().Int64(), r.Denom().Int64()
	if n == 1 && d > 1 {
		meta.SetText(types.ExposureTimeString, "1/"+strconv.FormatInt(d, 10))
	}
	meta.SetNumber(types.ExposureTime, float64(n)/float64(d))
}

// apexAperture converts an APEX aperture value to an f-number
func apexAperture(av float64) float64 {
	return math.Round(math.Pow(2, av/2)*10) / 10
}

// apexShutter converts an APEX shutter speed value to seconds
func apexShutter(tv float64) float64 {
	return math.Pow(2, -tv)
}

// tagIndex is every named field of an EXIF block, for fuzzy lookups
type tagIndex struct {
	names []string
	tags  map[string]*tiff.Tag
}

func (t *tagIndex) Walk(name exif.FieldName, tag *tiff.Tag) error {
	t.tags[string(name)] = tag
	return nil
}

func newTagIndex(x *exif.Exif) *tagIndex {
	idx := &tagIndex{tags: make(map[string]*tiff.Tag)}
	_ = x.Walk(idx)
	for name := range idx.tags {
		idx.names = append(idx.names, name)
	}
	sort.Strings(idx.names)
	return idx
}

// unmatched names are only ever read by exact name. LensMake holds the
// lens vendor and would otherwise pass as a lens or body maker.
var unmatched = map[string]bool{"LensMake": true, "LensSerialNumber": true}

// find returns the first tag accepted by ok, trying exact names before substring matches
func (t *tagIndex) find(variants []string, ok func(*tiff.Tag) bool) (string, *tiff.Tag) {
	for _, v := range variants {
		if tag, found := t.tags[v]; found && ok(tag) {
			return v, tag
		}
	}
	for _, v := range variants {
		for _, name := range t.names {
			if !unmatched[name] && strings.Contains(name, v) && ok(t.tags[name]) {
				return name, t.tags[name]
			}
		}
	}
	return "", nil
}

func isText(tag *tiff.Tag) bool {
	if tag.Format() != tiff.StringVal {
		return false
	}
	s, err := tag.StringVal()
	return err == nil && strings.TrimSpace(strings.Trim(s, "\x00")) != ""
}

func isNumber(tag *tiff.Tag) bool {
	_, ok := tagFloat(tag)
	return ok
}

var (
	modelVariants    = []string{"Model"}
	makeVariants     = []string{"Make"}
	lensVariants     = []string{"LensModel", "LensInfo", "Lens"}
	focalVariants    = []string{"FocalLength"}
	apertureVariants = []string{"FNumber", "ApertureValue"}
	isoVariants      = []string{"ISOSpeedRatings", "ISOSpeed", "ISO"}
	exposureVariants = []string{"ExposureTime", "ShutterSpeedValue"}
)

// fuzzyMetadata reads vendor-inconsistent raw tag sets by name variants
func fuzzyMetadata(x *exif.Exif) types.Metadata {
	meta := types.Metadata{}
	idx := newTagIndex(x)

	if _, tag := idx.find(modelVariants, isText); tag != nil {
		s, _ := tag.StringVal()
		meta.SetText(types.Model, s)
	}
	if _, tag := idx.find(makeVariants, isText); tag != nil {
		s, _ := tag.StringVal()
		meta.SetText(types.Make, s)
	}
	if _, tag := idx.find(lensVariants, isText); tag != nil {
		s, _ := tag.StringVal()
		meta.SetText(types.LensModel, s)
	}
	if _, tag := idx.find(focalVariants, isNumber); tag != nil {
		v, _ := tagFloat(tag)
		meta.SetNumber(types.FocalLength, v)
	}
	if name, tag := idx.find(apertureVariants, isNumber); tag != nil {
		v, _ := tagFloat(tag)
		if strings.Contains(name, "ApertureValue") {
			v = apexAperture(v)
		}
		meta.SetNumber(types.FNumber, v)
	}
	if _, tag := idx.find(isoVariants, isNumber); tag != nil {
		v, _ := tagFloat(tag)
		meta.SetNumber(types.ISOSpeedRatings, v)
	}
	if name, tag := idx.find(exposureVariants, isNumber); tag != nil {
		if strings.Contains(name, "ShutterSpeedValue") {
			v, _ := tagFloat(tag)
			t := apexShutter(v)
			if t < 1 && t > 0 {
				n := math.Round(1 / t)
				meta.SetText(types.ExposureTimeString, "1/"+strconv.FormatFloat(n, 'f', 0, 64))
				t = 1 / n
			}
			meta.SetNumber(types.ExposureTime, t)
		} else {
			setExposure(meta, tag)
		}
	}
	return meta
}

// orientation returns the EXIF orientation of x, or 1
func orientation(x *exif.Exif) int {
	if x == nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}
