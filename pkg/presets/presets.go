// Package presets loads and saves broadcast format presets: named sets of
// project settings applied in one batch.
package presets

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

//go:embed broadcast_presets.json
var bundled []byte

const (
	// CustomPrefix marks user presets in listings
	CustomPrefix = "[Custom] "
	// CustomFile is the file holding user presets inside the custom directory
	CustomFile = "custom_presets.json"

	customDescription = "Custom broadcast format presets"
	noDescription     = "No description available"
)

// ErrEmptyName is returned when saving a preset without a name
var ErrEmptyName = errors.New("preset name cannot be empty")

// Settings maps project setting keys to values. The host only accepts
// strings, so numbers and booleans in preset files are converted on load.
type Settings map[string]string

// UnmarshalJSON accepts any scalar value
func (s *Settings) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	out := make(Settings, len(raw))
	for k, v := range raw {
		switch x := v.(type) {
		case nil:
			continue
		case string:
			out[k] = x
		case json.Number:
			out[k] = x.String()
		case bool:
			out[k] = fmt.Sprint(x)
		default:
			return fmt.Errorf("setting %q: value must be a scalar", k)
		}
	}
	*s = out
	return nil
}

// Keys returns the setting keys in sorted order
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Preset is a described group of settings
type Preset struct {
	Description string   `json:"description"`
	Settings    Settings `json:"settings"`
}

// Detail is the text shown when the preset is selected
func (p Preset) Detail() string {
	desc := p.Description
	if desc == "" {
		desc = noDescription
	}
	lines := make([]string, 0, len(p.Settings))
	for _, k := range p.Settings.Keys() {
		lines = append(lines, fmt.Sprintf("  %s: %s", k, p.Settings[k]))
	}
	return desc + "\n\nSettings:\n" + strings.Join(lines, "\n")
}

// File is the on-disk preset document
type File struct {
	Description string            `json:"_description,omitempty"`
	Presets     map[string]Preset `json:"presets"`
}

// Catalog is the merged view of bundled and custom presets
type Catalog map[string]Preset

// Names returns preset names sorted for display
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store locates the bundled and custom preset files
type Store struct {
	// BundledPath overrides the presets compiled into the binary
	BundledPath string
	CustomDir   string

	logger zerolog.Logger
}

// NewStore creates a store. An empty customDir selects DefaultCustomDir.
func NewStore(bundledPath, customDir string) *Store {
	if customDir == "" {
		customDir = DefaultCustomDir()
	}
	return &Store{BundledPath: bundledPath, CustomDir: customDir, logger: zerolog.Nop()}
}

// SetLogger sets the logger
func (s *Store) SetLogger(l zerolog.Logger) {
	s.logger = l
}

// CustomPath is the full path of the custom preset file
func (s *Store) CustomPath() string {
	return filepath.Join(s.CustomDir, CustomFile)
}

// Load merges bundled presets with custom ones, the latter under CustomPrefix.
// An unreadable file is skipped and reported in warnings.
func (s *Store) Load() (Catalog, []error) {
	catalog := Catalog{}
	var warnings []error

	data := bundled
	source := "embedded"
	if s.BundledPath != "" {
		source = s.BundledPath
		var err error
		data, err = os.ReadFile(s.BundledPath)
		if err != nil {
			data = nil
			warnings = append(warnings, errors.Wrap(err, "failed to load default presets"))
		}
	}
	if data != nil {
		f, err := parse(data)
		if err != nil {
			warnings = append(warnings, errors.Wrapf(err, "failed to load default presets from %s", source))
		}
		for name, p := range f.Presets {
			catalog[name] = p
		}
	}

	custom, err := s.readCustom()
	if err != nil {
		warnings = append(warnings, errors.Wrap(err, "failed to load custom presets"))
	}
	for name, p := range custom.Presets {
		catalog[CustomPrefix+name] = p
	}

	for _, w := range warnings {
		s.logger.Warn().Err(w).Msg("preset file skipped")
	}
	s.logger.Debug().Int("presets", len(catalog)).Msg("presets loaded")
	return catalog, warnings
}

// SaveCustom adds or replaces a custom preset. An existing custom file that
// cannot be parsed is left untouched and reported, so saving never discards
// earlier presets.
func (s *Store) SaveCustom(name, description string, settings map[string]string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	f, err := s.readCustom()
	if err != nil {
		return errors.Wrap(err, "existing custom presets are unreadable")
	}
	if f.Presets == nil {
		f.Presets = map[string]Preset{}
	}
	f.Description = customDescription
	f.Presets[name] = Preset{Description: strings.TrimSpace(description), Settings: Settings(settings)}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return errors.Wrap(err, "failed to encode custom presets")
	}

	if err := os.MkdirAll(s.CustomDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create custom preset directory")
	}
	if err := writeAtomic(s.CustomPath(), buf.Bytes()); err != nil {
		return err
	}
	s.logger.Info().Str("preset", name).Str("path", s.CustomPath()).Msg("custom preset saved")
	return nil
}

// readCustom returns an empty file when none exists yet
func (s *Store) readCustom() (File, error) {
	data, err := os.ReadFile(s.CustomPath())
	if errors.Is(err, os.ErrNotExist) {
		return File{}, nil
	}
	if err != nil {
		return File{}, err
	}
	return parse(data)
}

func parse(data []byte) (File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, errors.Wrap(err, "invalid preset file")
	}
	return f, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".presets-*.json")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write presets")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to write presets")
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.Wrap(err, "failed to set preset file mode")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "failed to replace preset file")
}

// DefaultCustomDir is the per-user custom preset directory for this platform
func DefaultCustomDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return customDirFor(runtime.GOOS, home, os.Getenv("APPDATA"))
}

func customDirFor(goos, home, appdata string) string {
	const name = "DaVinci Resolve Custom Presets"
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", name)
	case "windows":
		if appdata == "" {
			appdata = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appdata, name)
	}
	return filepath.Join(home, ".config", name)
}
