package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/securescan/securescan/pkg/scan"
	"github.com/securescan/securescan/pkg/tui"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List the engines and malware labels",
	Run: func(cmd *cobra.Command, args []string) {
		var engines strings.Builder
		for i, name := range scan.Roster {
			fmt.Fprintf(&engines, "%2d. %s\n", i+1, name)
		}
		var labels strings.Builder
		for _, label := range scan.MalwareLabels {
			fmt.Fprintf(&labels, "• %s\n", label)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.Box(fmt.Sprintf("Engines (%d)", len(scan.Roster)), strings.TrimRight(engines.String(), "\n")))
		fmt.Fprintln(out, tui.Box("Malware labels", strings.TrimRight(labels.String(), "\n")))
	},
}

func init() {
	rootCmd.AddCommand(rosterCmd)
}
