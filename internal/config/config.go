package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/menta2k/resolvekit/pkg/actions"
	"github.com/menta2k/resolvekit/pkg/settings"
	"github.com/menta2k/resolvekit/pkg/types"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "RESOLVEKIT_"

// Config holds the application configuration
type Config struct {
	Frame   FrameConfig   `json:"frame"`
	Fonts   FontsConfig   `json:"fonts"`
	Presets PresetsConfig `json:"presets"`
	Dump    DumpConfig    `json:"dump"`
	Log     LogConfig     `json:"log"`
}

// FrameConfig holds the defaults of the frame dialog and the frame command
type FrameConfig struct {
	Border        string `json:"border"`
	BorderPercent int    `json:"border_percent"`
	Polaroid      bool   `json:"polaroid"`
}

// FontsConfig lists extra directories searched for caption fonts
type FontsConfig struct {
	Dirs []string `json:"dirs"`
}

// PresetsConfig overrides where presets are read and saved
type PresetsConfig struct {
	BundledPath string `json:"bundled_path"`
	CustomDir   string `json:"custom_dir"`
}

// DumpConfig controls the settings dump
type DumpConfig struct {
	Format    string `json:"format"`
	OutputDir string `json:"output_dir"`
}

// LogConfig controls log output
type LogConfig struct {
	Level string `json:"level"`
	JSON  bool   `json:"json"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Frame: FrameConfig{
			Border:        string(types.Light),
			BorderPercent: 5,
			Polaroid:      true,
		},
		Dump: DumpConfig{
			Format: string(settings.FormatJSON),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadFromFile loads configuration from a JSON file; missing fields keep their defaults
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load reads the optional .env beside filename, the optional config file and
// then the RESOLVEKIT_* environment overrides
func Load(filename string) (*Config, error) {
	envFile := filepath.Join(filepath.Dir(filename), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	config := Default()
	if _, err := os.Stat(filename); err == nil {
		if config, err = LoadFromFile(filename); err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides fields from environment variables found by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("BORDER"); ok {
		c.Frame.Border = v
	}
	if v, ok := get("BORDER_PERCENT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sBORDER_PERCENT: %w", EnvPrefix, err)
		}
		c.Frame.BorderPercent = n
	}
	if v, ok := get("POLAROID"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sPOLAROID: %w", EnvPrefix, err)
		}
		c.Frame.Polaroid = b
	}
	if v, ok := get("FONT_DIRS"); ok {
		c.Fonts.Dirs = filepath.SplitList(v)
	}
	if v, ok := get("PRESETS_FILE"); ok {
		c.Presets.BundledPath = v
	}
	if v, ok := get("CUSTOM_PRESETS_DIR"); ok {
		c.Presets.CustomDir = v
	}
	if v, ok := get("DUMP_FORMAT"); ok {
		c.Dump.Format = v
	}
	if v, ok := get("DUMP_DIR"); ok {
		c.Dump.OutputDir = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("LOG_JSON"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sLOG_JSON: %w", EnvPrefix, err)
		}
		c.Log.JSON = b
	}
	return nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch strings.ToLower(c.Frame.Border) {
	case "white", "black", "light", "dark":
	default:
		return fmt.Errorf("frame.border must be white or black, got %q", c.Frame.Border)
	}

	if c.Frame.BorderPercent < 0 || c.Frame.BorderPercent > 20 {
		return fmt.Errorf("frame.border_percent must be between 0 and 20")
	}

	if _, err := settings.ParseFormat(c.Dump.Format); err != nil {
		return fmt.Errorf("dump.format: %w", err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("log.level %q is not a known level", c.Log.Level)
	}

	return nil
}

// FrameDefaults converts the frame section for the frame dialog
func (c *Config) FrameDefaults() actions.FrameDefaults {
	return actions.FrameDefaults{
		Border:   types.ParseBorderColor(c.Frame.Border),
		Percent:  c.Frame.BorderPercent,
		Polaroid: c.Frame.Polaroid,
	}
}

// RenderOptions converts the frame section for the frame pipeline
func (c *Config) RenderOptions() types.RenderOptions {
	return types.RenderOptions{
		Border:      types.ParseBorderColor(c.Frame.Border),
		BorderRatio: float64(c.Frame.BorderPercent) / 100,
		Polaroid:    c.Frame.Polaroid,
	}
}

// DumpFormat returns the validated dump format
func (c *Config) DumpFormat() settings.Format {
	f, err := settings.ParseFormat(c.Dump.Format)
	if err != nil {
		return settings.FormatJSON
	}
	return f
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "resolvekit", "config.json")
}
