// Package installer places the toolkit's scripts into the host's Scripts
// menu. Every script is the same bridge stub rendered for one action and
// edition; the stub starts the toolkit binary and serves its host calls.
package installer

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/menta2k/resolvekit/internal/utils"
	"github.com/menta2k/resolvekit/pkg/actions"
)

//go:embed stub.py.tmpl
var stubTemplate string

// BinEnv overrides, at run time, the binary path embedded into the stubs
const BinEnv = "RESOLVEKIT_BIN"

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrCheckFailed         = errors.New("environment check failed")
)

// Edition selects the script set
type Edition string

const (
	Studio Edition = "studio"
	Free   Edition = "free"
)

// ParseEdition accepts studio, free and lite
func ParseEdition(s string) (Edition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "studio":
		return Studio, nil
	case "free", "lite":
		return Free, nil
	}
	return "", errors.Errorf("unknown edition %q (want studio or free)", s)
}

// Title is the edition name shown to users
func (e Edition) Title() string {
	if e == Studio {
		return "Studio"
	}
	return "Free"
}

// Script is one file placed in the Scripts menu
type Script struct {
	Name   string
	Action string
}

var scriptSets = map[Edition][]Script{
	Studio: {
		{Name: "add_exif_frame_dv.py", Action: actions.NameExifFrame},
		{Name: "copy_project_settings_dv.py", Action: actions.NameCopySettings},
		{Name: "set_broadcast_format_dv.py", Action: actions.NameBroadcastFormat},
		{Name: "debug_project_settings.py", Action: actions.NameDumpSettings},
	},
	Free: {
		{Name: "add_exif_frame_dv_lite.py", Action: actions.NameExifFrame},
		{Name: "copy_project_settings_dv_lite.py", Action: actions.NameCopySettings},
		{Name: "debug_project_settings.py", Action: actions.NameDumpSettings},
	},
}

// Scripts returns the script set of an edition
func Scripts(e Edition) []Script {
	return append([]Script(nil), scriptSets[e]...)
}

// AllScriptNames lists every file any edition installs
func AllScriptNames() []string {
	seen := map[string]bool{}
	var names []string
	for _, set := range scriptSets {
		for _, s := range set {
			if !seen[s.Name] {
				seen[s.Name] = true
				names = append(names, s.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Render fills the stub template for one script
func Render(s Script, e Edition, binPath string) string {
	return strings.NewReplacer(
		"{{BIN_PATH}}", pyString(binPath),
		"{{ACTION}}", s.Action,
		"{{EDITION}}", string(e),
	).Replace(stubTemplate)
}

// pyString escapes a value for a double-quoted Python literal
func pyString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// InstallDir returns the host's utility scripts directory for the running platform
func InstallDir() (string, error) {
	home, _ := os.UserHomeDir()
	return installDirFor(runtime.GOOS, home, os.Getenv("APPDATA"))
}

func installDirFor(goos, home, appdata string) (string, error) {
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Blackmagic Design",
			"DaVinci Resolve", "Fusion", "Scripts", "Utility"), nil
	case "windows":
		if appdata == "" {
			return "", errors.New("APPDATA environment variable not found")
		}
		return filepath.Join(appdata, "Blackmagic Design", "DaVinci Resolve", "Fusion", "Scripts", "Utility"), nil
	}
	return "", errors.Wrap(ErrUnsupportedPlatform, goos)
}

// BinaryPath returns the binary the stubs should start: $RESOLVEKIT_BIN, else this executable
func BinaryPath() (string, error) {
	if p := os.Getenv(BinEnv); p != "" {
		return p, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "cannot locate the resolvekit binary")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}

// Installer writes and removes scripts in Dir
type Installer struct {
	Dir     string
	BinPath string
	Out     io.Writer

	logger zerolog.Logger
}

// New returns an installer for the running platform
func New(out io.Writer) (*Installer, error) {
	dir, err := InstallDir()
	if err != nil {
		return nil, err
	}
	bin, err := BinaryPath()
	if err != nil {
		return nil, err
	}
	return &Installer{Dir: dir, BinPath: bin, Out: out, logger: zerolog.Nop()}, nil
}

// SetLogger attaches a logger
func (in *Installer) SetLogger(l zerolog.Logger) {
	in.logger = l
}

func (in *Installer) printf(format string, args ...any) {
	if in.Out != nil {
		fmt.Fprintf(in.Out, format, args...)
	}
}

// Install renders the edition's scripts into Dir and returns the written paths
func (in *Installer) Install(e Edition) ([]string, error) {
	if !utils.FileExists(in.BinPath) {
		return nil, errors.Errorf("resolvekit binary not found: %s", in.BinPath)
	}
	if err := utils.EnsureDir(in.Dir); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", in.Dir)
	}

	in.printf("Installing %s version scripts...\n", e.Title())
	var written []string
	for _, s := range Scripts(e) {
		path := filepath.Join(in.Dir, s.Name)
		if err := os.WriteFile(path, []byte(Render(s, e, in.BinPath)), 0644); err != nil {
			return written, errors.Wrapf(err, "failed to write %s", s.Name)
		}
		in.logger.Debug().Str("path", path).Str("action", s.Action).Msg("script installed")
		in.printf("Installed: %s\n", s.Name)
		written = append(written, path)
	}

	in.printf("\nInstallation complete (%s version).\n", e.Title())
	in.printf("Please restart DaVinci Resolve if scripts do not appear.\n")
	return written, nil
}

// Uninstall removes every script any edition installs and returns the removed paths
func (in *Installer) Uninstall() ([]string, error) {
	var removed []string
	for _, name := range AllScriptNames() {
		path := filepath.Join(in.Dir, name)
		if !utils.FileExists(path) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, errors.Wrapf(err, "failed to remove %s", name)
		}
		in.printf("Removed: %s\n", name)
		removed = append(removed, path)
	}

	if len(removed) > 0 {
		in.printf("Removed %d script(s) from %s\n", len(removed), in.Dir)
	} else {
		in.printf("No scripts found in %s\n", in.Dir)
	}
	return removed, nil
}

// Installed lists the scripts currently present in Dir
func (in *Installer) Installed() []string {
	var names []string
	for _, name := range AllScriptNames() {
		if utils.FileExists(filepath.Join(in.Dir, name)) {
			names = append(names, name)
		}
	}
	return names
}
