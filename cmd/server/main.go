package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/securescan/securescan/pkg/logger"
	"github.com/securescan/securescan/pkg/scan"
	"github.com/securescan/securescan/server/api"
)

func main() {
	logger.SetLevelFromString(getEnv("LOG_LEVEL", "info"))

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		logger.Error("invalid PORT: %v", err)
		os.Exit(1)
	}
	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "30m"))
	if err != nil {
		logger.Error("invalid SESSION_TTL: %v", err)
		os.Exit(1)
	}

	config := api.Config{
		Port:       port,
		SessionTTL: ttl,
		Scan:       scan.Options{},
		RateLimit:  20,
	}

	server, err := api.NewServer(config)
	if err != nil {
		logger.Error("failed to create server: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("🛡  SecureScan web server on port %d (session TTL %s)", config.Port, ttl)
	if err := server.Run(ctx); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
