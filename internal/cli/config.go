package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/menta2k/resolvekit/internal/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and write the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Long: `Writes the configuration currently in effect (defaults, then the
config file, then RESOLVEKIT_* overrides) as JSON to --config or
~/.config/resolvekit/config.json. An existing file is kept unless --force.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configPath())
	},
}

var configFlags struct {
	force bool
}

func init() {
	configInitCmd.Flags().BoolVar(&configFlags.force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if utils.FileExists(path) && !configFlags.force {
		return errors.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.SaveToFile(path); err != nil {
		return err
	}
	logger.Debug().Str("path", path).Msg("configuration written")
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
