package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/menta2k/resolvekit"
)

// Build-time variables set via ldflags
var (
	commit = "unknown"
	date   = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func versionString() string {
	return fmt.Sprintf("resolvekit %s (%s, %s) %s/%s", resolvekit.GetVersion(), commit, date, runtime.GOOS, runtime.GOARCH)
}
