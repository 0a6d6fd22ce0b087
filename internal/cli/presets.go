package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/menta2k/resolvekit/internal/config"
	"github.com/menta2k/resolvekit/pkg/presets"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List and show broadcast format presets",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bundled and custom presets",
	Args:  cobra.NoArgs,
	RunE:  runPresetsList,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the description and settings of a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsShow,
}

func init() {
	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsShowCmd)
	rootCmd.AddCommand(presetsCmd)
}

func loadCatalog() (presets.Catalog, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	catalog, warnings := presetStore(cfg).Load()
	for _, w := range warnings {
		logger.Warn().Err(w).Msg("preset file skipped")
	}
	return catalog, nil
}

func presetStore(cfg *config.Config) *presets.Store {
	return presets.NewStore(cfg.Presets.BundledPath, cfg.Presets.CustomDir)
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	if len(catalog) == 0 {
		return errors.New("no presets available")
	}
	for _, name := range catalog.Names() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runPresetsShow(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	p, ok := catalog[args[0]]
	if !ok {
		return errors.Errorf("preset %q not found", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), args[0])
	fmt.Fprintln(cmd.OutOrStdout(), p.Detail())
	return nil
}
