// Package label turns normalized camera metadata into the two caption lines
// drawn under a framed photo.
package label

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/menta2k/resolvekit/pkg/types"
)

const (
	// UnknownCamera is the camera line used when no model was recorded
	UnknownCamera = "Unknown Camera"
	// NoExifData replaces an empty settings line under an unknown camera
	NoExifData = "No Exif Data"
	// Separator joins settings tokens
	Separator = " | "
)

var corporateNoise = []string{"CORPORATION", "Corporation", "Inc.", "Ltd."}

// Format builds the camera and settings lines from m
func Format(m types.Metadata) (camera, settings string) {
	return CameraLine(m), SettingsLine(m)
}

// Resolve is Format plus the "No Exif Data" substitution for an otherwise blank card
func Resolve(m types.Metadata) (camera, settings string) {
	camera, settings = Format(m)
	if camera == UnknownCamera && settings == "" {
		settings = NoExifData
	}
	return camera, settings
}

// CameraLine returns "<Make> <Model> / <Lens>" with the make deduplicated out of the model
func CameraLine(m types.Metadata) string {
	name := UnknownCamera
	if model := m.Text(types.Model); model != "" {
		name = cameraName(m.Text(types.Make), model)
	}

	lens := m.Text(types.LensModel)
	if lens != "" && lens != name {
		return name + " / " + lens
	}
	return name
}

func cameraName(maker, model string) string {
	clean := model
	if maker != "" {
		clean = removeFold(clean, maker)
		if fw := firstWord(maker); fw != "" {
			clean = removeFold(clean, fw)
		}
	}
	for _, junk := range corporateNoise {
		clean = strings.ReplaceAll(clean, junk, "")
	}
	clean = strings.Join(strings.Fields(clean), " ")
	if clean == "" {
		clean = model
	}

	brand := cases.Title(language.Und).String(strings.ToLower(firstWord(maker)))
	if brand != "" && !strings.Contains(strings.ToLower(clean), strings.ToLower(brand)) {
		return brand + " " + clean
	}
	return clean
}

func removeFold(s, sub string) string {
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(sub))
	return strings.TrimSpace(re.ReplaceAllString(s, ""))
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// SettingsLine returns "<focal>mm | f/<n> | <shutter>s | ISO <iso>", omitting unknown values
func SettingsLine(m types.Metadata) string {
	var parts []string

	if focal := m.Number(types.FocalLength); focal > 0 && int(focal) > 0 {
		parts = append(parts, strconv.Itoa(int(focal))+"mm")
	}
	if fn := m.Number(types.FNumber); fn > 0 {
		parts = append(parts, "f/"+strconv.FormatFloat(fn, 'f', -1, 32))
	}
	if s := ShutterSpeed(m.Number(types.ExposureTime), m.Text(types.ExposureTimeString)); s != "" {
		parts = append(parts, s+"s")
	}
	if iso := m.Number(types.ISOSpeedRatings); iso > 0 {
		parts = append(parts, "ISO "+formatNumber(iso))
	}

	return strings.Join(parts, Separator)
}

// ShutterSpeed renders an exposure time. A non-empty display string wins.
func ShutterSpeed(speed float64, display string) string {
	if display != "" {
		return display
	}
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return ""
	}
	if speed < 1 {
		return "1/" + strconv.FormatFloat(math.Round(1/speed), 'f', 0, 64)
	}
	return formatNumber(speed)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
