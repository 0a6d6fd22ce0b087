package frame

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Weight selects a font style
type Weight int

const (
	Regular Weight = iota
	Bold
)

func (w Weight) String() string {
	if w == Bold {
		return "bold"
	}
	return "regular"
}

// Source names of the built-in fallbacks
const (
	SourceEmbedded = "embedded:go"
	SourceBitmap   = "embedded:7x13"
)

// FontResolver picks the first usable font for a weight: platform files,
// then files of the same names inside ExtraDirs, then the Go fonts, then a
// fixed bitmap face. It never fails.
type FontResolver struct {
	Candidates      map[Weight][]string
	ExtraDirs       []string
	DisableEmbedded bool

	logger zerolog.Logger
	parsed map[string]*opentype.Font
}

// NewFontResolver returns a resolver with the candidate list for the running platform
func NewFontResolver(extraDirs ...string) *FontResolver {
	return &FontResolver{
		Candidates: platformCandidates(runtime.GOOS),
		ExtraDirs:  extraDirs,
		logger:     zerolog.Nop(),
		parsed:     make(map[string]*opentype.Font),
	}
}

// SetLogger attaches a logger for font lookup diagnostics
func (r *FontResolver) SetLogger(l zerolog.Logger) {
	r.logger = l
}

func platformCandidates(goos string) map[Weight][]string {
	switch goos {
	case "darwin":
		return map[Weight][]string{
			Bold: {
				"/System/Library/Fonts/SFNS-Bold.ttf",
				"/Library/Fonts/Arial Bold.ttf",
				"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
			},
			Regular: {
				"/System/Library/Fonts/SFNS.ttf",
				"/Library/Fonts/Arial.ttf",
				"/System/Library/Fonts/Supplemental/Arial.ttf",
				"/System/Library/Fonts/Helvetica.ttc",
			},
		}
	case "windows":
		dir := filepath.Join(os.Getenv("WINDIR"), "Fonts")
		if os.Getenv("WINDIR") == "" {
			dir = `C:\Windows\Fonts`
		}
		return map[Weight][]string{
			Bold:    {filepath.Join(dir, "arialbd.ttf"), filepath.Join(dir, "segoeuib.ttf")},
			Regular: {filepath.Join(dir, "arial.ttf"), filepath.Join(dir, "segoeui.ttf")},
		}
	default:
		return map[Weight][]string{
			Bold: {
				"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
				"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
				"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
			},
			Regular: {
				"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
				"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
				"/usr/share/fonts/TTF/DejaVuSans.ttf",
			},
		}
	}
}

// Paths lists every file tried for w, in order. Bold falls through to the regular list.
func (r *FontResolver) Paths(w Weight) []string {
	names := append([]string{}, r.Candidates[w]...)
	if w == Bold {
		names = append(names, r.Candidates[Regular]...)
	}

	paths := append([]string{}, names...)
	for _, dir := range r.ExtraDirs {
		for _, name := range names {
			paths = append(paths, filepath.Join(dir, filepath.Base(name)))
		}
	}
	return paths
}

// Face returns a face of the given pixel size and the source it came from
func (r *FontResolver) Face(w Weight, size float64) (font.Face, string) {
	if size < 1 {
		size = 1
	}

	for _, path := range r.Paths(w) {
		f, err := r.load(path)
		if err != nil {
			continue
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			r.logger.Debug().Err(err).Str("font", path).Msg("font face creation failed")
			continue
		}
		return face, path
	}

	if !r.DisableEmbedded {
		data := goregular.TTF
		if w == Bold {
			data = gobold.TTF
		}
		if f, err := opentype.Parse(data); err == nil {
			if face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull}); err == nil {
				return face, SourceEmbedded
			}
		}
	}

	r.logger.Debug().Stringer("weight", w).Msg("using bitmap font")
	return basicfont.Face7x13, SourceBitmap
}

func (r *FontResolver) load(path string) (*opentype.Font, error) {
	if f, ok := r.parsed[path]; ok {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f *opentype.Font
	if strings.EqualFold(filepath.Ext(path), ".ttc") || strings.EqualFold(filepath.Ext(path), ".otc") {
		coll, cerr := opentype.ParseCollection(data)
		if cerr != nil {
			r.logger.Debug().Err(cerr).Str("font", path).Msg("font collection unreadable")
			return nil, cerr
		}
		f, err = coll.Font(0)
	} else {
		f, err = opentype.Parse(data)
	}
	if err != nil {
		r.logger.Debug().Err(err).Str("font", path).Msg("font unreadable")
		return nil, err
	}

	if r.parsed == nil {
		r.parsed = make(map[string]*opentype.Font)
	}
	r.parsed[path] = f
	return f, nil
}
