package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/menta2k/resolvekit"
)

var exifCmd = &cobra.Command{
	Use:   "exif <file>...",
	Short: "Print the metadata and caption of photos",
	Long: `Reads each photo the way the frame command does and prints the normalized
metadata, the two caption lines, the frame geometry and the output path,
without writing anything.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExif,
}

var exifFlags struct {
	format string
}

func init() {
	exifCmd.Flags().StringVarP(&exifFlags.format, "format", "f", "json", "output format: json or yaml")
	rootCmd.AddCommand(exifCmd)
}

func runExif(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if exifFlags.format != "json" && exifFlags.format != "yaml" {
		return fmt.Errorf("unknown format %q (want json or yaml)", exifFlags.format)
	}

	tk := resolvekit.NewWithConfig(resolvekit.Options{FontDirs: cfg.Fonts.Dirs, Logger: logger})
	reports := make([]resolvekit.Report, 0, len(args))
	for _, path := range args {
		reports = append(reports, tk.Inspect(path, cfg.RenderOptions()))
	}

	out := cmd.OutOrStdout()
	if exifFlags.format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
