package actions

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/menta2k/resolvekit/pkg/dialog"
	"github.com/menta2k/resolvekit/pkg/settings"
)

// CopySettings creates a new project carrying every setting of an existing one
func CopySettings(ctx context.Context, env *Env) error {
	names, err := env.Projects.ListProjects(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list projects")
	}
	if len(names) == 0 {
		return env.message(ctx, "Error",
			"No projects found in current folder.\n\nPlease ensure you have projects in the current database folder.")
	}

	resp, err := env.Dialogs.Run(ctx, ProjectWindow(names))
	if err != nil {
		return errors.Wrap(err, "project dialog failed")
	}
	source := resp.Value(ProjectTree)
	if resp.Clicked != Next || source == "" {
		return nil
	}

	values, err := settings.Read(ctx, env.Projects, source)
	switch {
	case errors.Is(err, settings.ErrLoadProject):
		return env.message(ctx, "Error", "Failed to load project:\n"+source)
	case errors.Is(err, settings.ErrNoSettings):
		return env.message(ctx, "Error",
			"No settings retrieved from project.\n\nThe project may not have any configurable settings.")
	case err != nil:
		return err
	}

	defaultName := settings.DefaultCopyName(source)
	resp, err = env.Dialogs.Run(ctx, NameWindow(source, len(values), defaultName))
	if err != nil {
		return errors.Wrap(err, "name dialog failed")
	}
	if resp.Clicked != Create {
		return nil
	}
	name := strings.TrimSpace(resp.Value(NameInput))
	if name == "" {
		name = defaultName
	}

	r, err := settings.CreateWith(ctx, env.Projects, name, values)
	if errors.Is(err, settings.ErrCreateProject) {
		return env.message(ctx, "Error",
			"Failed to create project:\n"+name+"\n\nThe project name may already exist in the current folder.")
	}
	if err != nil {
		return err
	}

	env.Logger.Info().Str("source", source).Str("project", name).
		Int("applied", r.Applied).Int("failed", len(r.Failed)).Msg("settings copied")
	for _, f := range r.Failed {
		if f.Err != nil {
			env.Logger.Warn().Err(f.Err).Str("key", f.Key).Msg("setting rejected")
		}
	}

	_, err = env.Dialogs.Run(ctx, dialog.Report("Result", settings.Summary(r)))
	return err
}
