package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/menta2k/resolvekit"
	"github.com/menta2k/resolvekit/internal/installer"
	"github.com/menta2k/resolvekit/internal/tui"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the scripts into the DaVinci Resolve Scripts menu",
	Long: `Writes one script per action into Resolve's Fusion/Scripts/Utility folder.
Each script starts this binary; set RESOLVEKIT_BIN to point the scripts
somewhere else. Without --edition an interactive terminal asks for it.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove every installed script",
	Args:  cobra.NoArgs,
	RunE:  runUninstall,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the installation environment",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

var installFlags struct {
	edition string
}

var editionOptions = []tui.Option{
	{Label: "Studio", Value: string(installer.Studio), Description: "Dialogs inside Resolve; includes broadcast format presets"},
	{Label: "Free", Value: string(installer.Free), Description: "Prompts in the Resolve console"},
}

func init() {
	installCmd.Flags().StringVar(&installFlags.edition, "edition", "", "studio or free")
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(checkCmd)
}

func chooseEdition() (installer.Edition, error) {
	if installFlags.edition != "" {
		return installer.ParseEdition(installFlags.edition)
	}
	if d := tui.Detect(); d.Mode != tui.ModeInteractive {
		return "", errors.Errorf("--edition is required when not interactive (%s)", d.Reason)
	}
	value, err := tui.Select("Select version to install", editionOptions)
	if err != nil {
		return "", err
	}
	return installer.ParseEdition(value)
}

func runInstall(cmd *cobra.Command, args []string) error {
	_, logger, err := loadConfig()
	if err != nil {
		return err
	}
	edition, err := chooseEdition()
	if err != nil {
		return err
	}

	in, err := installer.New(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	in.SetLogger(logger)
	_, err = in.Install(edition)
	return err
}

func runUninstall(cmd *cobra.Command, args []string) error {
	in, err := installer.New(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	_, err = in.Uninstall()
	return err
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	tk := resolvekit.NewWithConfig(resolvekit.Options{FontDirs: cfg.Fonts.Dirs, Logger: logger})
	env := installer.CurrentEnvironment(presetStore(cfg), tk.Fonts())

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tui.TitleStyle.Render("=== Environment Check ==="))
	items, err := installer.Check(env)
	for _, it := range items {
		fmt.Fprintln(out, it)
	}
	return err
}
