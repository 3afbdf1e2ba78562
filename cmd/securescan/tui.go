package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/securescan/securescan/pkg/logger"
	"github.com/securescan/securescan/pkg/scan"
	"github.com/securescan/securescan/pkg/screen"
	"github.com/securescan/securescan/pkg/tui"
	"github.com/securescan/securescan/pkg/userconfig"
	"github.com/securescan/securescan/pkg/watch"
)

var dropDir string

var tuiCmd = &cobra.Command{
	Use:   "tui [path]",
	Short: "Open the interactive scan screen",
	Long: `Open the full-screen scan screen in the terminal.

An optional path preselects a file. With --drop-dir, any file that appears
in that folder while the screen is idle gets selected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !tui.GetTerminalInfo(os.Stdout).IsInteractive {
		return fmt.Errorf("the scan screen needs a terminal; use 'securescan scan <path>' instead")
	}

	cfg, err := userconfig.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := screen.New(scan.NewSimulatedScanner(cfg.ScanOptions()))
	opts := tui.ScanOptions{}
	if len(args) == 1 {
		opts.InitialPath = args[0]
	}

	dir := dropDir
	if dir == "" {
		dir = cfg.TUI.DropDir
	}
	if dir != "" {
		w, err := watch.New(watch.DefaultOptions(dir))
		if err != nil {
			return fmt.Errorf("drop folder: %w", err)
		}
		defer w.Close()
		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("drop folder watcher stopped: %v", err)
			}
		}()
		opts.Drops = w.Drops()
		opts.StartDir = dir
	}

	return tui.RunScanScreen(ctx, s, opts)
}

func init() {
	tuiCmd.Flags().StringVar(&dropDir, "drop-dir", "", "Watch a folder and select files dropped into it")
	rootCmd.AddCommand(tuiCmd)
}
