package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/menta2k/resolvekit"
	"github.com/menta2k/resolvekit/internal/tui"
	"github.com/menta2k/resolvekit/internal/utils"
	"github.com/menta2k/resolvekit/pkg/types"
)

var frameCmd = &cobra.Command{
	Use:   "frame <path>...",
	Short: "Add an EXIF frame to photos",
	Long: `Frames each photo with a border and a caption built from its EXIF data,
writing "<name>_framed.jpg" next to the original. Directories contribute
their supported photos; outputs of earlier runs are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFrame,
}

var frameFlags struct {
	border    string
	size      int
	polaroid  bool
	camera    string
	settings  string
	recursive bool
}

func init() {
	f := frameCmd.Flags()
	f.StringVar(&frameFlags.border, "border", "", "border color: white or black (default from config)")
	f.IntVar(&frameFlags.size, "size", 0, "border size in percent of the shorter side, 0-20 (default from config)")
	f.BoolVar(&frameFlags.polaroid, "polaroid", true, "use a deeper bottom border")
	f.StringVar(&frameFlags.camera, "camera", "", "override the camera line")
	f.StringVar(&frameFlags.settings, "settings", "", "override the settings line")
	f.BoolVarP(&frameFlags.recursive, "recursive", "r", false, "descend into subdirectories")
	rootCmd.AddCommand(frameCmd)
}

func runFrame(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("border") {
		cfg.Frame.Border = frameFlags.border
	}
	if flags.Changed("size") {
		cfg.Frame.BorderPercent = frameFlags.size
	}
	if flags.Changed("polaroid") {
		cfg.Frame.Polaroid = frameFlags.polaroid
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	files, err := utils.ExpandInputs(args, frameFlags.recursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no supported photos found")
	}

	tk := resolvekit.NewWithConfig(resolvekit.Options{FontDirs: cfg.Fonts.Dirs, Logger: logger})
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range files {
		opts := cfg.RenderOptions()
		if flags.Changed("camera") || flags.Changed("settings") {
			camera, settings := tk.Labels(path)
			if flags.Changed("camera") {
				camera = frameFlags.camera
			}
			if flags.Changed("settings") {
				settings = frameFlags.settings
			}
			opts.Labels = &types.Labels{Camera: camera, Settings: settings}
		}

		framed, err := tk.AddFrame(path, opts)
		switch {
		case err != nil:
			failed++
			fmt.Fprintln(out, tui.StatusLine(tui.StatusFail, path, err.Error()))
		case framed == "":
			fmt.Fprintln(out, tui.StatusLine(tui.StatusWarn, path, "skipped, cannot read image"))
		default:
			detail := framed
			if info, err := os.Stat(framed); err == nil {
				detail += " (" + utils.FormatFileSize(info.Size()) + ")"
			}
			fmt.Fprintln(out, tui.StatusLine(tui.StatusOK, path, detail))
		}
	}

	if failed > 0 {
		return errors.Errorf("%d of %d photos failed", failed, len(files))
	}
	return nil
}
