package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/resolvekit"
	"github.com/menta2k/resolvekit/internal/config"
	"github.com/menta2k/resolvekit/internal/installer"
	"github.com/menta2k/resolvekit/internal/testutil"
	"github.com/menta2k/resolvekit/pkg/bridge/bridgetest"
	"github.com/menta2k/resolvekit/pkg/host/hosttest"
)

// isolate points the CLI at an empty config and a private custom preset dir
func isolate(t *testing.T) {
	t.Helper()
	for _, name := range []string{"BORDER", "BORDER_PERCENT", "POLAROID", "FONT_DIRS", "PRESETS_FILE",
		"DUMP_FORMAT", "DUMP_DIR", "LOG_LEVEL", "LOG_JSON"} {
		t.Setenv(config.EnvPrefix+name, "")
	}
	t.Setenv(config.EnvPrefix+"CUSTOM_PRESETS_DIR", t.TempDir())
	t.Setenv(config.EnvPrefix+"LOG_LEVEL", "disabled")

	rootFlags.config = filepath.Join(t.TempDir(), "config.json")
	rootFlags.verbose = false
	t.Cleanup(func() { rootFlags.config = "" })
}

func writePhoto(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	img := testutil.SolidImage(120, 80, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	require.NoError(t, os.WriteFile(path, testutil.JPEGWithExif(img, testutil.CameraTIFF(1).Bytes()), 0644))
	return path
}

func TestVersionString(t *testing.T) {
	assert.True(t, strings.HasPrefix(versionString(), "resolvekit "+resolvekit.Version))
}

func TestFrameCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	photo := writePhoto(t, dir, "a.jpg")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	var out bytes.Buffer
	frameCmd.SetOut(&out)
	defer frameCmd.SetOut(nil)

	require.NoError(t, runFrame(frameCmd, []string{dir}))
	assert.FileExists(t, filepath.Join(dir, "a_framed.jpg"))
	assert.Contains(t, out.String(), photo)

	// the framed output is not picked up again
	out.Reset()
	require.NoError(t, runFrame(frameCmd, []string{dir}))
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestFrameCommandErrors(t *testing.T) {
	isolate(t)
	assert.Error(t, runFrame(frameCmd, []string{t.TempDir()}))
	assert.Error(t, runFrame(frameCmd, []string{filepath.Join(t.TempDir(), "missing.jpg")}))
}

func TestExifCommand(t *testing.T) {
	isolate(t)
	photo := writePhoto(t, t.TempDir(), "a.jpg")

	var out bytes.Buffer
	exifCmd.SetOut(&out)
	defer exifCmd.SetOut(nil)
	defer func() { exifFlags.format = "json" }()

	exifFlags.format = "json"
	require.NoError(t, runExif(exifCmd, []string{photo}))
	var reports []resolvekit.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Contains(t, reports[0].Camera, "Canon EOS R5")
	assert.Contains(t, reports[0].Settings, "ISO 400")
	assert.Equal(t, 120, reports[0].Image.Width)

	out.Reset()
	exifFlags.format = "yaml"
	require.NoError(t, runExif(exifCmd, []string{photo}))
	assert.Contains(t, out.String(), "camera: Canon EOS R5")

	exifFlags.format = "xml"
	assert.Error(t, runExif(exifCmd, []string{photo}))
}

func TestConfigInit(t *testing.T) {
	isolate(t)
	defer func() { configFlags.force = false }()
	t.Setenv(config.EnvPrefix+"BORDER", "black")

	var out bytes.Buffer
	configInitCmd.SetOut(&out)
	defer configInitCmd.SetOut(nil)

	require.NoError(t, runConfigInit(configInitCmd, nil))
	assert.Contains(t, out.String(), rootFlags.config)

	saved, err := config.LoadFromFile(rootFlags.config)
	require.NoError(t, err)
	assert.Equal(t, "black", saved.Frame.Border)
	assert.Equal(t, 5, saved.Frame.BorderPercent)

	assert.Error(t, runConfigInit(configInitCmd, nil))

	t.Setenv(config.EnvPrefix+"BORDER", "white")
	configFlags.force = true
	require.NoError(t, runConfigInit(configInitCmd, nil))
	saved, err = config.LoadFromFile(rootFlags.config)
	require.NoError(t, err)
	assert.Equal(t, "white", saved.Frame.Border)
}

func TestConfigPath(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	configPathCmd.SetOut(&out)
	defer configPathCmd.SetOut(nil)

	configPathCmd.Run(configPathCmd, nil)
	assert.Equal(t, rootFlags.config+"\n", out.String())
}

func TestPresetsCommands(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	presetsListCmd.SetOut(&out)
	presetsShowCmd.SetOut(&out)
	defer presetsListCmd.SetOut(nil)
	defer presetsShowCmd.SetOut(nil)

	require.NoError(t, runPresetsList(presetsListCmd, nil))
	assert.Contains(t, out.String(), "UHD 4K 25\n")

	out.Reset()
	require.NoError(t, runPresetsShow(presetsShowCmd, []string{"UHD 4K 25"}))
	assert.Contains(t, out.String(), "timelineResolutionWidth: 3840")

	assert.Error(t, runPresetsShow(presetsShowCmd, []string{"Nope"}))
}

func TestRunValidation(t *testing.T) {
	isolate(t)
	defer func() { runFlags.edition, runFlags.bridge = "studio", false }()

	runFlags.edition, runFlags.bridge = "studio", true
	assert.Error(t, runRun(runCmd, []string{"nope"}))

	runFlags.edition = "pro"
	assert.Error(t, runRun(runCmd, []string{"dump-settings"}))

	runFlags.edition, runFlags.bridge = "free", false
	assert.Error(t, runRun(runCmd, []string{"dump-settings"}))
}

func TestRunActionOverBridge(t *testing.T) {
	p := hosttest.NewProject("Wedding", map[string]string{"timelineFrameRate": "25"})
	console := &hosttest.Console{}
	client, stop := bridgetest.Start(&bridgetest.Server{Manager: hosttest.NewManager(p), Console: console})
	defer stop()

	cfg := config.Default()
	cfg.Dump.OutputDir = t.TempDir()
	cfg.Presets.CustomDir = t.TempDir()

	err := runAction(context.Background(), "dump-settings", installer.Free, client, cfg, zerolog.Nop())
	require.NoError(t, err)

	entries, err := os.ReadDir(cfg.Dump.OutputDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "resolve_project_settings_"))
	assert.Contains(t, console.Output(), "Project settings dumped successfully!")
}

func TestChooseEditionNonInteractive(t *testing.T) {
	defer func() { installFlags.edition = "" }()

	installFlags.edition = "lite"
	e, err := chooseEdition()
	require.NoError(t, err)
	assert.Equal(t, installer.Free, e)

	installFlags.edition = ""
	t.Setenv("RESOLVEKIT_NON_INTERACTIVE", "1")
	_, err = chooseEdition()
	assert.Error(t, err)
}
