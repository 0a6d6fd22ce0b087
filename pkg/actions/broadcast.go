package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/menta2k/resolvekit/pkg/host"
	"github.com/menta2k/resolvekit/pkg/presets"
	"github.com/menta2k/resolvekit/pkg/settings"
)

// saveAttempts bounds how often an empty preset name is re-prompted
const saveAttempts = 3

// BroadcastFormat applies a preset to the open project, or saves the
// project's current settings as a custom preset
func BroadcastFormat(ctx context.Context, env *Env) error {
	proj, err := env.currentProject(ctx)
	if err != nil || proj == nil {
		return err
	}

	catalog, warnings := env.Presets.Load()
	for _, w := range warnings {
		env.print(ctx, "Warning: "+w.Error())
	}
	if len(catalog) == 0 {
		return env.message(ctx, "Error",
			"No presets found!\n\nPlease ensure the bundled presets or "+presets.CustomFile+" are readable.")
	}

	resp, err := env.Dialogs.Run(ctx, PresetWindow(catalog))
	if err != nil {
		return errors.Wrap(err, "preset dialog failed")
	}

	switch resp.Clicked {
	case SaveCurrentButton:
		return saveCurrent(ctx, env, proj)
	case ApplyButton:
	default:
		return nil
	}

	name := resp.Value(PresetTree)
	if name == "" {
		return nil
	}
	preset, ok := catalog[name]
	if !ok {
		return env.message(ctx, "Error", fmt.Sprintf("Preset '%s' not found!", name))
	}
	if len(preset.Settings) == 0 {
		return env.message(ctx, "Error", "Selected preset has no settings defined!")
	}

	r := settings.Apply(ctx, proj, preset.Settings)
	env.Logger.Info().Str("preset", name).Int("applied", r.Applied).Int("total", r.Total).Msg("preset applied")
	if !r.OK() {
		return env.message(ctx, "Partial Success", settings.PartialReport(r))
	}
	return env.message(ctx, "Success",
		fmt.Sprintf("Successfully applied all %d settings from preset:\n'%s'", r.Applied, name))
}

func saveCurrent(ctx context.Context, env *Env, proj host.Project) error {
	var name, description string
	for attempt := 0; ; attempt++ {
		if attempt == saveAttempts {
			return nil
		}
		resp, err := env.Dialogs.Run(ctx, SavePresetWindow(name, description))
		if err != nil {
			return errors.Wrap(err, "save dialog failed")
		}
		if resp.Clicked != SaveButton {
			return nil
		}
		name = strings.TrimSpace(resp.Value(PresetNameInput))
		description = strings.TrimSpace(resp.Value(DescriptionInput))
		if name != "" {
			break
		}
		if err := env.message(ctx, "Error", "Preset name cannot be empty!"); err != nil {
			return err
		}
	}

	current, err := proj.Settings(ctx)
	if err != nil || len(current) == 0 {
		if err != nil {
			env.Logger.Warn().Err(err).Msg("reading project settings failed")
		}
		return env.message(ctx, "Error", "Failed to retrieve current project settings.")
	}

	if err := env.Presets.SaveCustom(name, description, current); err != nil {
		env.print(ctx, "Error saving custom preset: "+err.Error())
		return env.message(ctx, "Error", "Failed to save custom preset.\n\n"+err.Error())
	}
	return env.message(ctx, "Success", fmt.Sprintf("Custom preset '%s' saved successfully!", name))
}
