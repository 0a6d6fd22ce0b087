package actions

import (
	"context"

	"github.com/menta2k/resolvekit/pkg/settings"
)

// DumpSettings writes every project and timeline setting to a file so the
// keys can be used in presets
func DumpSettings(ctx context.Context, env *Env) error {
	now := env.now()
	snap := settings.Take(ctx, env.Projects, now)
	if snap.Failed() {
		env.Logger.Warn().Str("error", snap.Error).Msg("settings snapshot incomplete")
	}

	dir := env.DumpDir
	if dir == "" {
		dir = settings.DefaultDumpDir()
	}
	format := env.DumpFormat
	if format == "" {
		format = settings.FormatJSON
	}

	path, err := settings.Write(snap, dir, format, now)
	if err != nil {
		msg := "Failed to write output file: " + err.Error()
		env.print(ctx, msg)
		if derr := env.message(ctx, "Error", msg); derr != nil {
			env.Logger.Debug().Err(derr).Msg("error dialog unavailable")
		}
		return nil
	}

	env.print(ctx, "Project settings dumped successfully!\n\nOutput file: "+path)
	if _, err := env.Dialogs.Run(ctx, DumpWindow(path)); err != nil {
		env.Logger.Debug().Err(err).Msg("confirmation dialog unavailable")
	}
	return nil
}
