package actions

import (
	"fmt"
	"strconv"

	"github.com/menta2k/resolvekit/pkg/dialog"
	"github.com/menta2k/resolvekit/pkg/presets"
	"github.com/menta2k/resolvekit/pkg/types"
)

// Widget and button IDs
const (
	CamInput      = "CamInput"
	SetInput      = "SetInput"
	ColorCombo    = "ColorCombo"
	PolaroidCheck = "PolaroidCheck"
	SizeSlider    = "SizeSlider"
	SizeLabel     = "SizeLabel"
	Execute       = "Execute"
	Cancel        = "Cancel"

	ProjectTree = "ProjectTree"
	Next        = "Next"
	NameInput   = "NameInput"
	Create      = "Create"

	PresetTree        = "PresetTree"
	DescriptionLabel  = "DescriptionLabel"
	ApplyButton       = "ApplyButton"
	SaveCurrentButton = "SaveCurrentButton"
	CancelButton      = "CancelButton"
	PresetNameInput   = "PresetNameInput"
	DescriptionInput  = "DescriptionInput"
	SaveButton        = "SaveButton"
)

const (
	colorWhite = "White"
	colorBlack = "Black"
)

// FrameWindow is the options dialog of the EXIF frame action
func FrameWindow(fileName, camera, settings string, d FrameDefaults) dialog.Window {
	colors := []string{colorWhite, colorBlack}
	if d.Border == types.Dark {
		colors = []string{colorBlack, colorWhite}
	}
	return dialog.Window{
		ID:     "ExifWin",
		Title:  "Exif Frame",
		Width:  450,
		Height: 320,
		Root: dialog.VGroup(
			dialog.Label("Target: "+fileName).Emphasized(),
			dialog.VGroup(
				dialog.Label("Text Options"),
				dialog.LineEdit(CamInput, camera, "Camera Model"),
				dialog.LineEdit(SetInput, settings, "Settings"),
			).Framed(),
			dialog.VGroup(
				dialog.Label("Border Design"),
				dialog.HGroup(
					dialog.Label("Style:"),
					dialog.ComboBox(ColorCombo, colors...),
					dialog.CheckBox(PolaroidCheck, "Polaroid Bottom", d.Polaroid),
				),
				dialog.HGroup(
					dialog.Label("Size (%):"),
					dialog.Slider(SizeSlider, 0, 20, d.Percent),
					dialog.Label(strconv.Itoa(d.Percent)+"%").WithID(SizeLabel).BoundTo(SizeSlider, "%d%%"),
				),
			).Framed(),
			dialog.HGroup(
				dialog.Button(Execute, "Process"),
				dialog.Button(Cancel, "Cancel"),
			),
		),
	}
}

// FrameOptions reads render options from a submitted FrameWindow
func FrameOptions(r dialog.Response, d FrameDefaults) types.RenderOptions {
	return types.RenderOptions{
		Border:      types.ParseBorderColor(r.Value(ColorCombo)),
		BorderRatio: float64(r.Int(SizeSlider, d.Percent)) / 100,
		Polaroid:    r.Bool(PolaroidCheck),
		Labels: &types.Labels{
			Camera:   r.Value(CamInput),
			Settings: r.Value(SetInput),
		},
	}
}

// ProjectWindow asks for the source project of a settings copy
func ProjectWindow(projects []string) dialog.Window {
	return dialog.Window{
		ID:     "SelectWin",
		Title:  "Copy Project Settings",
		Width:  450,
		Height: 400,
		Root: dialog.VGroup(
			dialog.Label("Select source project:").Emphasized(),
			dialog.Tree(ProjectTree, projects...),
			dialog.HGroup(
				dialog.Button(Next, "Next"),
				dialog.Button(Cancel, "Cancel"),
			),
		),
	}
}

// NameWindow asks for the name of the new project
func NameWindow(source string, count int, defaultName string) dialog.Window {
	return dialog.Window{
		ID:     "NameWin",
		Title:  "Copy Project Settings",
		Width:  450,
		Height: 250,
		Root: dialog.VGroup(
			dialog.Label("Source: "+source).Emphasized(),
			dialog.Label(fmt.Sprintf("Settings: %d items loaded", count)),
			dialog.Label("New Project Name:"),
			dialog.LineEdit(NameInput, defaultName, "Enter project name"),
			dialog.HGroup(
				dialog.Button(Create, "Create"),
				dialog.Button(Cancel, "Cancel"),
			),
		),
	}
}

// PresetWindow lists presets with a live detail label
func PresetWindow(catalog presets.Catalog) dialog.Window {
	names := catalog.Names()
	details := make(map[string]string, len(names))
	for _, name := range names {
		details[name] = catalog[name].Detail()
	}
	return dialog.Window{
		ID:     "PresetSelectorDialog",
		Title:  "Select Broadcast Format Preset",
		Width:  600,
		Height: 500,
		Root: dialog.VGroup(
			dialog.Label("Choose a broadcast format preset to apply:").Emphasized(),
			dialog.VGroup(dialog.Tree(PresetTree, names...)).Framed(),
			dialog.Label("Select a preset to see details").
				WithID(DescriptionLabel).
				BoundTo(PresetTree, "").
				WithDetails(details).
				Wrapped(),
			dialog.HGroup(
				dialog.Button(ApplyButton, "Apply Preset"),
				dialog.Button(SaveCurrentButton, "Save Current Settings"),
				dialog.Button(CancelButton, "Cancel"),
			),
		),
	}
}

// SavePresetWindow asks for the name and description of a custom preset
func SavePresetWindow(name, description string) dialog.Window {
	return dialog.Window{
		ID:     "SavePresetDialog",
		Title:  "Save Custom Preset",
		Width:  450,
		Height: 200,
		Root: dialog.VGroup(
			dialog.Label("Save current project settings as a custom preset:"),
			dialog.VGroup(
				dialog.HGroup(
					dialog.Label("Preset Name:"),
					dialog.LineEdit(PresetNameInput, name, "Enter preset name"),
				),
				dialog.HGroup(
					dialog.Label("Description:"),
					dialog.LineEdit(DescriptionInput, description, "Optional description"),
				),
			).Framed(),
			dialog.HGroup(
				dialog.Button(SaveButton, "Save"),
				dialog.Button(CancelButton, "Cancel"),
			),
		),
	}
}

// DumpWindow confirms where the settings dump was written
func DumpWindow(path string) dialog.Window {
	return dialog.Window{
		ID:     "DebugSettingsDialog",
		Title:  "Project Settings Dumped",
		Width:  500,
		Height: 150,
		Root: dialog.VGroup(
			dialog.Label("Project settings have been saved!"),
			dialog.Label(path).Wrapped(),
			dialog.Button(dialog.OK, "OK"),
		),
	}
}
