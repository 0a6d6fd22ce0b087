// Package cli implements the resolvekit command line.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/menta2k/resolvekit/internal/config"
	"github.com/menta2k/resolvekit/internal/logging"
	"github.com/menta2k/resolvekit/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "resolvekit",
	Short: "Photo frames and project tools for DaVinci Resolve",
	Long: `resolvekit frames photos with their camera settings and automates
DaVinci Resolve projects from the Workspace > Scripts menu.

Install the menu scripts with "resolvekit install". The scripts start
"resolvekit run <action>", which talks to Resolve through the installed stub.
The frame and exif commands work on files directly, without Resolve.

Exit Codes:
  0  - Success
  1  - Any failure (including failed checks)`,
	SilenceUsage: true,
}

var rootFlags struct {
	config  string
	verbose bool
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.config, "config", "", "config file (default ~/.config/resolvekit/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable debug logging")
}

// configPath is --config, else the per-user default
func configPath() string {
	if rootFlags.config != "" {
		return rootFlags.config
	}
	return config.GetConfigPath()
}

// loadConfig reads the configuration and builds the logger it describes
func loadConfig() (*config.Config, zerolog.Logger, error) {
	path := configPath()

	cfg, err := config.Load(path)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	level := cfg.Log.Level
	if rootFlags.verbose {
		level = "debug"
	}
	// bridged runs log into the Resolve console, which shows escape codes verbatim
	logger := logging.New(logging.Options{Level: level, JSON: cfg.Log.JSON, NoColor: !tui.IsInteractive()})
	logger.Debug().Str("config", path).Msg("configuration loaded")
	return cfg, logger, nil
}
