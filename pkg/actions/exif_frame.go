package actions

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/menta2k/resolvekit/pkg/host"
	"github.com/menta2k/resolvekit/pkg/label"
	"github.com/menta2k/resolvekit/pkg/output"
)

// ExifFrame frames the still under the playhead and swaps it into the timeline
func ExifFrame(ctx context.Context, env *Env) error {
	proj, err := env.currentProject(ctx)
	if err != nil || proj == nil {
		return err
	}

	tl, err := proj.CurrentTimeline(ctx)
	if errors.Is(err, host.ErrNotFound) {
		env.print(ctx, "No timeline is open.")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to get current timeline")
	}

	item, err := tl.CurrentVideoItem(ctx)
	if errors.Is(err, host.ErrNotFound) {
		env.print(ctx, "No item under playhead.")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to get clip under playhead")
	}

	path, err := item.ClipProperty(ctx, host.FilePathProperty)
	if err != nil {
		return errors.Wrap(err, "failed to read clip file path")
	}
	if path == "" || output.IsFramed(path) {
		env.Logger.Info().Str("path", path).Msg("clip skipped")
		return nil
	}

	src, meta := env.Framer.Extract(path)
	if src == nil {
		env.print(ctx, "Cannot read image: "+path)
		return nil
	}
	camera, settingsLine := label.Resolve(meta)

	resp, err := env.Dialogs.Run(ctx, FrameWindow(filepath.Base(path), camera, settingsLine, env.Frame))
	if err != nil {
		return errors.Wrap(err, "frame dialog failed")
	}
	if resp.Clicked != Execute {
		return nil
	}

	out, err := env.Framer.AddFrame(path, FrameOptions(resp, env.Frame))
	if err != nil {
		env.print(ctx, "Error: "+err.Error())
		return nil
	}
	if out == "" {
		return nil
	}

	if err := place(ctx, proj, item, out); err != nil {
		return err
	}
	env.print(ctx, "Framed image: "+out)
	return nil
}

// place replaces the clip's media with out, importing it instead when the
// host cannot replace in place
func place(ctx context.Context, proj host.Project, item host.MediaPoolItem, out string) error {
	ok, err := item.ReplaceClip(ctx, out)
	if err == nil && ok {
		return nil
	}
	pool, perr := proj.MediaPool(ctx)
	if perr != nil {
		return errors.Wrap(perr, "failed to get media pool")
	}
	if _, err := pool.ImportMedia(ctx, []string{out}); err != nil {
		return errors.Wrap(err, "failed to import framed image")
	}
	return nil
}
