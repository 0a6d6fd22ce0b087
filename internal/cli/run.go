package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/menta2k/resolvekit"
	"github.com/menta2k/resolvekit/internal/config"
	"github.com/menta2k/resolvekit/internal/installer"
	"github.com/menta2k/resolvekit/internal/tui"
	"github.com/menta2k/resolvekit/pkg/actions"
	"github.com/menta2k/resolvekit/pkg/bridge"
	"github.com/menta2k/resolvekit/pkg/dialog"
	"github.com/menta2k/resolvekit/pkg/presets"
)

var runCmd = &cobra.Command{
	Use:   "run <action>",
	Short: "Run a menu action against DaVinci Resolve",
	Long: `Runs one action for the script stub installed in Resolve's Scripts menu.
The stub starts this command with --bridge and answers its host calls on
stdin; stdout carries requests only, logs go to stderr.

Actions: exif-frame, copy-settings, broadcast-format, dump-settings`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: actions.Names(),
	RunE:      runRun,
}

var runFlags struct {
	edition string
	bridge  bool
}

func init() {
	runCmd.Flags().StringVar(&runFlags.edition, "edition", string(installer.Studio), "studio (host dialogs) or free (console prompts)")
	runCmd.Flags().BoolVar(&runFlags.bridge, "bridge", false, "talk to the host stub over stdin/stdout")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if _, ok := actions.Lookup(args[0]); !ok {
		return errors.Errorf("unknown action %q", args[0])
	}
	edition, err := installer.ParseEdition(runFlags.edition)
	if err != nil {
		return err
	}
	if !runFlags.bridge {
		return errors.New("run needs the host bridge; start it from the DaVinci Resolve Scripts menu")
	}
	tui.SetBridged(true)

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client := bridge.NewClient(os.Stdin, os.Stdout)
	client.SetLogger(logger)
	return runAction(ctx, args[0], edition, client, cfg, logger)
}

// runAction wires the bridge client into an action environment and runs it
func runAction(ctx context.Context, name string, edition installer.Edition, client *bridge.Client, cfg *config.Config, logger zerolog.Logger) error {
	var runner dialog.Runner = client.Runner()
	if edition == installer.Free {
		runner = dialog.NewConsoleRunner(client.Console())
	}

	store := presets.NewStore(cfg.Presets.BundledPath, cfg.Presets.CustomDir)
	store.SetLogger(logger)

	env := &actions.Env{
		Projects:   client.ProjectManager(),
		Console:    client.Console(),
		Dialogs:    runner,
		Framer:     resolvekit.NewWithConfig(resolvekit.Options{FontDirs: cfg.Fonts.Dirs, Logger: logger}),
		Presets:    store,
		Frame:      cfg.FrameDefaults(),
		DumpDir:    cfg.Dump.OutputDir,
		DumpFormat: cfg.DumpFormat(),
		Logger:     logger,
	}

	if err := actions.Run(ctx, name, env); err != nil {
		return errors.Wrapf(err, "%s failed", name)
	}
	return nil
}
