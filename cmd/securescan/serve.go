package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/securescan/securescan/pkg/userconfig"
	"github.com/securescan/securescan/server/api"
)

var (
	servePort      int
	serveRateLimit float64
	serveAnyOrigin bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scan screen in the browser",
	Long: `Start the web scan screen. Each browser tab gets its own session and
receives state over a WebSocket. Only file metadata is sent to the server.

Prometheus metrics are exposed at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := userconfig.Load()
		if err != nil {
			return err
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		server, err := api.NewServer(api.Config{
			Port:            port,
			SessionTTL:      cfg.SessionTTL(),
			Scan:            cfg.ScanOptions(),
			RateLimit:       serveRateLimit,
			AllowAllOrigins: serveAnyOrigin,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().Float64Var(&serveRateLimit, "rate-limit", 20, "API requests per second per client (0 disables)")
	serveCmd.Flags().BoolVar(&serveAnyOrigin, "allow-any-origin", false, "Accept WebSocket connections from any origin")
	rootCmd.AddCommand(serveCmd)
}
