package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/securescan/securescan/pkg/scan"
	"github.com/securescan/securescan/pkg/screen"
	"github.com/securescan/securescan/pkg/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and engine roster size",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.Banner())
		fmt.Fprintf(out, "  Version:    %s (%s, %s)\n", Version, GitCommit, BuildDate)
		fmt.Fprintf(out, "  Engines:    %d, %d malware labels\n", len(scan.Roster), len(scan.MalwareLabels))
		fmt.Fprintf(out, "  Detection:  up to %.0f%% of engines per scan\n", scan.DefaultMaxDetectionRate*100)
		fmt.Fprintf(out, "  Platform:   %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		fmt.Fprintln(out)
		fmt.Fprintln(out, tui.StyleWarning.Render(screen.Notice))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("SecureScan v{{.Version}}\n")
}
