package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"

	"github.com/menta2k/resolvekit/internal/tui"
	"github.com/menta2k/resolvekit/internal/utils"
	"github.com/menta2k/resolvekit/pkg/frame"
	"github.com/menta2k/resolvekit/pkg/presets"
)

// Item is one line of the check report
type Item struct {
	Label  string
	Status tui.Status
	Detail string
}

func (i Item) String() string {
	return tui.StatusLine(i.Status, i.Label, i.Detail)
}

// Environment is what Check inspects
type Environment struct {
	Platform string
	Dir      string
	DirErr   error
	BinPath  string
	BinErr   error
	Presets  *presets.Store
	Fonts    *frame.FontResolver
}

// CurrentEnvironment describes the running machine
func CurrentEnvironment(store *presets.Store, fonts *frame.FontResolver) Environment {
	env := Environment{
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Presets:  store,
		Fonts:    fonts,
	}
	env.Dir, env.DirErr = InstallDir()
	env.BinPath, env.BinErr = BinaryPath()
	return env
}

// Check inspects env and returns one item per concern. The error is
// ErrCheckFailed when any item failed.
func Check(env Environment) ([]Item, error) {
	var items []Item
	add := func(label string, s tui.Status, detail string) {
		items = append(items, Item{Label: label, Status: s, Detail: detail})
	}

	switch {
	case errors.Is(env.DirErr, ErrUnsupportedPlatform):
		add("Platform", tui.StatusFail, env.Platform+" is not supported")
	default:
		add("Platform", tui.StatusOK, env.Platform)
	}

	switch {
	case env.DirErr != nil:
		add("Install directory", tui.StatusFail, env.DirErr.Error())
	case utils.DirExists(env.Dir):
		add("Install directory", tui.StatusOK, env.Dir)
	default:
		add("Install directory", tui.StatusWarn, env.Dir+" (will be created on install)")
	}

	switch {
	case env.BinErr != nil:
		add("Binary", tui.StatusFail, env.BinErr.Error())
	case !utils.FileExists(env.BinPath):
		add("Binary", tui.StatusFail, env.BinPath+" not found")
	default:
		detail := env.BinPath
		if info, err := os.Stat(env.BinPath); err == nil {
			detail += " (" + utils.FormatFileSize(info.Size()) + ")"
		}
		add("Binary", tui.StatusOK, detail)
	}

	if env.DirErr == nil {
		in := &Installer{Dir: env.Dir}
		if names := in.Installed(); len(names) > 0 {
			add("Installed scripts", tui.StatusOK, fmt.Sprintf("%d found", len(names)))
		} else {
			add("Installed scripts", tui.StatusWarn, "none")
		}
	}

	if env.Presets != nil {
		catalog, warnings := env.Presets.Load()
		status := tui.StatusOK
		if len(warnings) > 0 {
			status = tui.StatusWarn
		}
		add("Presets", status, fmt.Sprintf("%d available", len(catalog)))
		for _, w := range warnings {
			add("Presets", tui.StatusWarn, w.Error())
		}

		dir := filepath.Dir(env.Presets.CustomPath())
		if utils.DirExists(dir) {
			add("Custom preset directory", tui.StatusOK, dir)
		} else {
			add("Custom preset directory", tui.StatusWarn, dir+" (created on first save)")
		}
	}

	if env.Fonts != nil {
		_, source := env.Fonts.Face(frame.Bold, 12)
		switch source {
		case frame.SourceEmbedded, frame.SourceBitmap:
			add("Fonts", tui.StatusWarn, "no system font found, using "+source)
		default:
			add("Fonts", tui.StatusOK, source)
		}
	}

	for _, it := range items {
		if it.Status == tui.StatusFail {
			return items, ErrCheckFailed
		}
	}
	return items, nil
}
