package presets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledPresets(t *testing.T) {
	store := NewStore("", t.TempDir())
	catalog, warnings := store.Load()
	require.Empty(t, warnings)

	require.Contains(t, catalog, "HD 1080p 25 (PAL)")
	p := catalog["HD 1080p 25 (PAL)"]
	assert.Equal(t, "1920", p.Settings["timelineResolutionWidth"])
	assert.Equal(t, "25", p.Settings["timelineFrameRate"])

	names := catalog.Names()
	assert.IsNonDecreasing(t, names)
	for _, name := range names {
		assert.NotEmpty(t, catalog[name].Settings, name)
	}
}

func TestSettingsStringifyScalars(t *testing.T) {
	var s Settings
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":25,"c":23.976,"d":true,"e":null}`), &s))
	assert.Equal(t, Settings{"a": "x", "b": "25", "c": "23.976", "d": "true"}, s)

	assert.Error(t, json.Unmarshal([]byte(`{"a":[1]}`), &s))
}

func TestCustomPresetsArePrefixed(t *testing.T) {
	dir := t.TempDir()
	store := NewStore("", dir)
	require.NoError(t, store.SaveCustom("  My Look ", "mine", map[string]string{"timelineFrameRate": "50"}))

	catalog, warnings := store.Load()
	require.Empty(t, warnings)
	require.Contains(t, catalog, CustomPrefix+"My Look")
	assert.Equal(t, "mine", catalog[CustomPrefix+"My Look"].Description)
	assert.Contains(t, catalog, "UHD 4K 25")

	data, err := os.ReadFile(filepath.Join(dir, CustomFile))
	require.NoError(t, err)
	var f File
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Equal(t, customDescription, f.Description)
	assert.Equal(t, "50", f.Presets["My Look"].Settings["timelineFrameRate"])
}

func TestSaveCustomKeepsExisting(t *testing.T) {
	store := NewStore("", t.TempDir())
	require.NoError(t, store.SaveCustom("One", "", map[string]string{"k": "1"}))
	require.NoError(t, store.SaveCustom("Two", "", map[string]string{"k": "2"}))
	require.NoError(t, store.SaveCustom("One", "updated", map[string]string{"k": "3"}))

	catalog, _ := store.Load()
	assert.Equal(t, "3", catalog[CustomPrefix+"One"].Settings["k"])
	assert.Equal(t, "updated", catalog[CustomPrefix+"One"].Description)
	assert.Equal(t, "2", catalog[CustomPrefix+"Two"].Settings["k"])

	entries, err := os.ReadDir(store.CustomDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveCustomErrors(t *testing.T) {
	store := NewStore("", t.TempDir())
	assert.ErrorIs(t, store.SaveCustom("   ", "", nil), ErrEmptyName)

	require.NoError(t, os.WriteFile(store.CustomPath(), []byte("{broken"), 0644))
	err := store.SaveCustom("x", "", map[string]string{"k": "v"})
	require.Error(t, err)

	data, readErr := os.ReadFile(store.CustomPath())
	require.NoError(t, readErr)
	assert.Equal(t, "{broken", string(data))
}

func TestSaveCustomCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "presets")
	store := NewStore("", dir)
	require.NoError(t, store.SaveCustom("x", "", map[string]string{"k": "v"}))
	assert.FileExists(t, store.CustomPath())
}

func TestLoadWarnings(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "missing.json"), dir)
	require.NoError(t, os.WriteFile(store.CustomPath(), []byte("not json"), 0644))

	catalog, warnings := store.Load()
	assert.Empty(t, catalog)
	assert.Len(t, warnings, 2)
}

func TestBundledOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studio.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"presets":{"House":{"description":"d","settings":{"timelineFrameRate":24}}}}`), 0644))

	catalog, warnings := NewStore(path, dir).Load()
	require.Empty(t, warnings)
	assert.Equal(t, []string{"House"}, catalog.Names())
	assert.Equal(t, "24", catalog["House"].Settings["timelineFrameRate"])
}

func TestDetail(t *testing.T) {
	p := Preset{Description: "Full HD", Settings: Settings{"b": "2", "a": "1"}}
	assert.Equal(t, "Full HD\n\nSettings:\n  a: 1\n  b: 2", p.Detail())

	assert.Equal(t, "No description available\n\nSettings:\n", Preset{}.Detail())
}

func TestCustomDirFor(t *testing.T) {
	tests := []struct {
		goos, home, appdata, want string
	}{
		{"darwin", "/Users/a", "", filepath.Join("/Users/a", "Library", "Application Support", "DaVinci Resolve Custom Presets")},
		{"windows", "/home/a", "/appdata", filepath.Join("/appdata", "DaVinci Resolve Custom Presets")},
		{"windows", "/home/a", "", filepath.Join("/home/a", "AppData", "Roaming", "DaVinci Resolve Custom Presets")},
		{"linux", "/home/a", "", filepath.Join("/home/a", ".config", "DaVinci Resolve Custom Presets")},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			assert.Equal(t, tt.want, customDirFor(tt.goos, tt.home, tt.appdata))
		})
	}
}
