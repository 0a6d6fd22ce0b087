// Package actions implements the user-triggered automations run from the
// host's Scripts menu. Each action drives the host through pkg/host and talks
// to the user through a dialog.Runner, so the same code serves the Studio
// edition (host dialogs) and the free edition (console prompts).
package actions

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/menta2k/resolvekit/pkg/dialog"
	"github.com/menta2k/resolvekit/pkg/extractor"
	"github.com/menta2k/resolvekit/pkg/host"
	"github.com/menta2k/resolvekit/pkg/presets"
	"github.com/menta2k/resolvekit/pkg/settings"
	"github.com/menta2k/resolvekit/pkg/types"
)

// Framer runs the photo framing pipeline
type Framer interface {
	Extract(path string) (*extractor.Source, types.Metadata)
	AddFrame(path string, opts types.RenderOptions) (string, error)
}

// FrameDefaults are the initial values of the frame dialog
type FrameDefaults struct {
	Border   types.BorderColor
	Percent  int
	Polaroid bool
}

// DefaultFrame is white, 5% and polaroid
func DefaultFrame() FrameDefaults {
	return FrameDefaults{Border: types.Light, Percent: 5, Polaroid: true}
}

// Env is everything an action may touch
type Env struct {
	Projects host.ProjectManager
	Console  host.Console
	Dialogs  dialog.Runner
	Framer   Framer
	Presets  *presets.Store

	Frame      FrameDefaults
	DumpDir    string
	DumpFormat settings.Format

	Now    func() time.Time
	Logger zerolog.Logger
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) print(ctx context.Context, text string) {
	if e.Console == nil {
		return
	}
	if err := e.Console.Print(ctx, text); err != nil {
		e.Logger.Debug().Err(err).Msg("console print failed")
	}
}

func (e *Env) message(ctx context.Context, title, text string) error {
	return dialog.ShowMessage(ctx, e.Dialogs, title, text)
}

// currentProject returns nil without error when no project is open
func (e *Env) currentProject(ctx context.Context) (host.Project, error) {
	p, err := e.Projects.CurrentProject(ctx)
	if errors.Is(err, host.ErrNotFound) {
		e.print(ctx, "Error: No project is currently open.")
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get current project")
	}
	return p, nil
}

// Action is one menu entry. Problems the user can fix are reported through
// the dialog runner; the returned error is reserved for host failures.
type Action func(ctx context.Context, env *Env) error

// Action names as used on the command line and in installed scripts
const (
	NameExifFrame       = "exif-frame"
	NameCopySettings    = "copy-settings"
	NameBroadcastFormat = "broadcast-format"
	NameDumpSettings    = "dump-settings"
)

var registry = map[string]Action{
	NameExifFrame:       ExifFrame,
	NameCopySettings:    CopySettings,
	NameBroadcastFormat: BroadcastFormat,
	NameDumpSettings:    DumpSettings,
}

// Names lists the registered actions
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds an action by name
func Lookup(name string) (Action, bool) {
	a, ok := registry[name]
	return a, ok
}

// Run executes the named action
func Run(ctx context.Context, name string, env *Env) error {
	a, ok := Lookup(name)
	if !ok {
		return errors.Errorf("unknown action %q", name)
	}
	env.Logger.Debug().Str("action", name).Msg("running action")
	return a(ctx, env)
}
