package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/securescan/securescan/pkg/scan"
	"github.com/securescan/securescan/pkg/screen"
	"github.com/securescan/securescan/pkg/tui"
	"github.com/securescan/securescan/pkg/userconfig"
)

var (
	scanJSON    bool
	scanSeed    uint64
	scanNoDelay bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Run one simulated scan and print the results",
	Long: `Run one simulated multi-engine scan for a local file and print the
per-engine results. Only the file's name, size and type are used.

Examples:
  securescan scan ./setup.exe
  securescan scan ./setup.exe --seed 42 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := userconfig.Load()
		if err != nil {
			return err
		}
		opts := cfg.ScanOptions()
		opts.Seed = scanSeed
		if scanNoDelay {
			opts.Sleeper = scan.NoSleep{}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var progress io.Writer = cmd.ErrOrStderr()
		if scanJSON {
			progress = io.Discard
		}
		view, err := runHeadless(ctx, args[0], opts, progress)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if scanJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		}
		fmt.Fprintln(out, tui.RenderFileInfo(view))
		fmt.Fprintln(out)
		fmt.Fprintln(out, tui.RenderReport(view, 60))
		return nil
	},
}

// runHeadless drives a screen through one full scan of path, writing
// progress lines to w, and returns the completed view.
func runHeadless(ctx context.Context, path string, opts scan.Options, w io.Writer) (screen.View, error) {
	file, err := screen.FileFromPath(path)
	if err != nil {
		return screen.View{}, err
	}

	s := screen.New(scan.NewSimulatedScanner(opts))
	if err := s.SelectFile(file); err != nil {
		return screen.View{}, err
	}

	updates, unsubscribe := s.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for st := range updates {
			if sc, ok := st.(screen.Scanning); ok {
				fmt.Fprintf(w, "\rScanning with %d engines... %3.0f%%", len(scan.Roster), sc.Progress)
			}
		}
	}()

	err = s.Scan(ctx)
	unsubscribe()
	<-done
	fmt.Fprintf(w, "\r%*s\r", 40, "")
	if err != nil {
		return screen.View{}, fmt.Errorf("scan %s: %w", file.Name, err)
	}
	return s.View(), nil
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print the result view as JSON")
	scanCmd.Flags().Uint64Var(&scanSeed, "seed", 0, "Seed for reproducible results (0 picks a random seed)")
	scanCmd.Flags().BoolVar(&scanNoDelay, "no-delay", false, "Skip the per-engine delay")
	rootCmd.AddCommand(scanCmd)
}
