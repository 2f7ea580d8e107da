package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is overridden at release time via -ldflags.
var version = "0.1.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ravescope %s\n", version)
		if IsVerbose() {
			fmt.Printf("  go: %s\n", runtime.Version())
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
