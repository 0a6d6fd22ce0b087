package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/resolvekit/pkg/settings"
	"github.com/menta2k/resolvekit/pkg/types"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{"BORDER", "BORDER_PERCENT", "POLAROID", "FONT_DIRS", "PRESETS_FILE",
		"CUSTOM_PRESETS_DIR", "DUMP_FORMAT", "DUMP_DIR", "LOG_LEVEL", "LOG_JSON"} {
		t.Setenv(EnvPrefix+name, "")
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	opts := c.RenderOptions()
	assert.Equal(t, types.DefaultRenderOptions(), opts)
	assert.Equal(t, settings.FormatJSON, c.DumpFormat())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	c := Default()
	c.Frame.Border = "black"
	c.Fonts.Dirs = []string{"/fonts"}
	require.NoError(t, c.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"frame":{"border":"black"}}`), 0644))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "black", c.Frame.Border)
	assert.Equal(t, 5, c.Frame.BorderPercent)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)
	c, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RESOLVEKIT_DUMP_FORMAT=yaml\n"), 0644))
	// godotenv never overrides variables that are already set, even to ""
	os.Unsetenv(EnvPrefix + "DUMP_FORMAT")
	t.Cleanup(func() { os.Unsetenv(EnvPrefix + "DUMP_FORMAT") })

	c, err := Load(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, settings.FormatYAML, c.DumpFormat())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"RESOLVEKIT_BORDER":         "dark",
		"RESOLVEKIT_BORDER_PERCENT": "12",
		"RESOLVEKIT_POLAROID":       "false",
		"RESOLVEKIT_FONT_DIRS":      "/a" + string(os.PathListSeparator) + "/b",
		"RESOLVEKIT_DUMP_DIR":       "/tmp/dumps",
		"RESOLVEKIT_LOG_LEVEL":      "debug",
		"RESOLVEKIT_LOG_JSON":       "true",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	c := Default()
	require.NoError(t, c.ApplyEnv(lookup))
	require.NoError(t, c.Validate())

	assert.Equal(t, types.Dark, c.FrameDefaults().Border)
	assert.Equal(t, 12, c.FrameDefaults().Percent)
	assert.False(t, c.FrameDefaults().Polaroid)
	assert.Equal(t, []string{"/a", "/b"}, c.Fonts.Dirs)
	assert.Equal(t, "/tmp/dumps", c.Dump.OutputDir)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Log.JSON)
	assert.InDelta(t, 0.12, c.RenderOptions().BorderRatio, 1e-9)
}

func TestApplyEnvErrors(t *testing.T) {
	for _, name := range []string{"BORDER_PERCENT", "POLAROID", "LOG_JSON"} {
		lookup := func(k string) (string, bool) {
			if k == EnvPrefix+name {
				return "nope", true
			}
			return "", false
		}
		assert.Error(t, Default().ApplyEnv(lookup), name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"border color", func(c *Config) { c.Frame.Border = "red" }},
		{"negative percent", func(c *Config) { c.Frame.BorderPercent = -1 }},
		{"percent too large", func(c *Config) { c.Frame.BorderPercent = 21 }},
		{"dump format", func(c *Config) { c.Dump.Format = "xml" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, "config.json", filepath.Base(GetConfigPath()))
	assert.Contains(t, GetConfigPath(), "resolvekit")
}
