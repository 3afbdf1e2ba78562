// Package api provides the HTTP server for the web scan screen
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/securescan/securescan/pkg/logger"
	"github.com/securescan/securescan/pkg/metrics"
	"github.com/securescan/securescan/pkg/scan"
	"github.com/securescan/securescan/pkg/screen"
	"github.com/securescan/securescan/server/ui"
)

// Config holds server configuration
type Config struct {
	Port       int
	SessionTTL time.Duration
	Scan       scan.Options

	// RateLimit is requests per second per client IP on /api. Zero disables it.
	RateLimit float64
	// AllowAllOrigins lets pages on other hosts open the WebSocket.
	AllowAllOrigins bool
}

// Server is the web UI server
type Server struct {
	echo     *echo.Echo
	config   Config
	sessions *SessionStore
	metrics  *metrics.Collector
	wsHub    *WSHub
	upgrader websocket.Upgrader

	// scans outlive the request that started them
	scanCtx    context.Context
	cancelScan context.CancelFunc
}

// NewServer creates a new server
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.Scan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scan options: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	// Only metadata is accepted; file bodies are never uploaded.
	e.Use(middleware.BodyLimit("4K"))

	collector := metrics.New("securescan")
	scanCtx, cancel := context.WithCancel(context.Background())

	s := &Server{
		echo:       e,
		config:     cfg,
		metrics:    collector,
		wsHub:      NewWSHub(),
		upgrader:   newUpgrader(cfg.AllowAllOrigins),
		scanCtx:    scanCtx,
		cancelScan: cancel,
	}
	s.sessions = NewSessionStore(cfg.SessionTTL, s.newScreen, collector.SetActiveSessions)

	s.setupRoutes()
	return s, nil
}

func (s *Server) newScreen() *screen.Screen {
	return screen.New(scan.NewSimulatedScanner(s.config.Scan), screen.WithObserver(s.metrics))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	v1 := s.echo.Group("/api/v1")
	if s.config.RateLimit > 0 {
		v1.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(s.config.RateLimit))))
	}

	v1.GET("/roster", s.getRoster)
	v1.POST("/sessions", s.createSession)
	v1.GET("/sessions/:id", s.getSession)
	v1.DELETE("/sessions/:id", s.deleteSession)
	v1.POST("/sessions/:id/file", s.selectFile)
	v1.POST("/sessions/:id/scan", s.startScan)
	v1.POST("/sessions/:id/cancel", s.cancel)
	v1.POST("/sessions/:id/reset", s.reset)
	v1.GET("/sessions/:id/ws", s.HandleWebSocket)

	// Serve Frontend (Embedded)
	fileServer := http.FileServer(http.FS(ui.Assets()))
	s.echo.GET("/*", func(c echo.Context) error {
		if strings.HasPrefix(c.Request().URL.Path, "/api") {
			return echo.ErrNotFound
		}
		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Sessions exposes the session store
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Start starts the server and blocks
func (s *Server) Start() error {
	err := s.echo.Start(fmt.Sprintf(":%d", s.config.Port))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server and any running scans
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancelScan()
	s.wsHub.CloseAll()
	return s.echo.Shutdown(ctx)
}

// Run serves until ctx is done, sweeping idle sessions meanwhile
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(s.Start)
	g.Go(func() error {
		return s.sessions.Run(gctx, time.Minute, s.wsHub.CloseSession)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	logger.Info("web scan screen listening on http://localhost:%d", s.config.Port)
	return g.Wait()
}
