package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/securescan/securescan/pkg/logger"
	"github.com/securescan/securescan/pkg/userconfig"
)

// Version info - set by build flags
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

var (
	logLevel string
	logFile  bool
)

var rootCmd = &cobra.Command{
	Use:   "securescan",
	Short: "SecureScan: a simulated multi-engine malware scan screen",
	Long: `SecureScan presents a multi-engine malware scan screen. Pick or drop a
file, start a scan and watch 20 engines report in.

Results are simulated for demonstration only. File content is never read,
hashed or uploaded.

QUICK START
  securescan                 Open the interactive scan screen
  securescan scan report.pdf Run one scan and print the results
  securescan serve           Serve the scan screen in the browser

EXAMPLES
  # Preselect a file and watch a drop folder
  $ securescan tui ./invoice.exe --drop-dir ~/Downloads

  # Deterministic results as JSON
  $ securescan scan ./setup.msi --seed 42 --json`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// interactive reports whether cmd draws a full-screen terminal UI
func interactive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "tui"
}

// setupLogging applies the log level from flags or config. Full-screen
// commands log to a file only so the screen stays intact.
func setupLogging(cmd *cobra.Command) error {
	level := logLevel
	if level == "" {
		if cfg, err := userconfig.Load(); err == nil {
			level = cfg.LogLevel
		}
	}
	logger.SetLevelFromString(level)

	opts := logger.Options{Console: true, File: logFile}
	if interactive(cmd) {
		opts = logger.Options{File: logFile}
	}
	return logger.Init(opts)
}

// execute runs the CLI with args (nil means os.Args) and closes the log
// file whether or not the command failed
func execute(args []string) error {
	defer logger.Close()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func Execute() {
	if err := execute(nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logFile, "log-file", false, "Also write logs to ~/.securescan/logs")
	rootCmd.Flags().StringVar(&dropDir, "drop-dir", "", "Watch a folder and select files dropped into it")
}

func main() {
	Execute()
}
