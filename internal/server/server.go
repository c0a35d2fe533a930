// Package server hosts the carousel showcase: the rendered page, a JSON
// API over the carousel state and the WebSocket endpoint that keeps
// browsers in sync with the engine.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/conneroisu/fluentcarousel/internal/carousel"
	"github.com/conneroisu/fluentcarousel/internal/config"
	carouselerrors "github.com/conneroisu/fluentcarousel/internal/errors"
	"github.com/conneroisu/fluentcarousel/internal/logging"
	"github.com/conneroisu/fluentcarousel/internal/showcase"
	"github.com/conneroisu/fluentcarousel/internal/websocket"
)

// Server serves the showcase for a single carousel.
type Server struct {
	config   *config.Config
	carousel *carousel.Carousel
	bridge   *websocket.Bridge
	hub      *websocket.Hub
	origins  websocket.AllowedOrigins
	page     showcase.Options
	logger   logging.Logger

	httpServer   *http.Server
	serverMutex  sync.RWMutex
	shutdownOnce sync.Once
	isShutdown   atomic.Bool
}

// New creates a showcase server for c. The carousel stays owned by the
// caller; Shutdown does not close it.
func New(cfg *config.Config, c *carousel.Carousel, logger logging.Logger) (*Server, error) {
	if cfg == nil {
		return nil, carouselerrors.NewServerError(carouselerrors.ErrCodeServerStart, "server config is required", nil)
	}
	if c == nil {
		return nil, carouselerrors.NewServerError(carouselerrors.ErrCodeServerStart, "carousel is required", nil)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	origins := websocket.AllowedOrigins(cfg.Server.AllowedOrigins)
	bridge := websocket.NewBridge(c)

	return &Server{
		config:   cfg,
		carousel: c,
		bridge:   bridge,
		hub:      websocket.NewHub(origins, bridge, logger),
		origins:  origins,
		page: showcase.Options{
			Title:          "Fluent Carousel",
			ShowIndicators: cfg.Carousel.ShowIndicators,
			ShowControls:   cfg.Carousel.ShowControls,
			Size:           cfg.Carousel.Size,
		},
		logger: logger.WithComponent("server"),
	}, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.hub.HandleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/fragment", s.handleFragment)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/command", s.handleCommand)
	mux.HandleFunc("/", s.handleIndex)

	return s.addMiddleware(mux)
}

// Start relays carousel events to connected browsers and serves HTTP
// until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.isShutdown.Load() {
		return carouselerrors.NewServerError(carouselerrors.ErrCodeServerStart, "server already shut down", nil)
	}

	s.bridge.Start(ctx, s.hub)

	addr := s.config.Server.Addr()

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	s.logger.Info(ctx, "showcase server listening", "addr", "http://"+addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return carouselerrors.NewServerError(carouselerrors.ErrCodeServerStart, "server error", err).
			WithContext("addr", addr)
	}

	return nil
}

// Shutdown disconnects every browser and stops the HTTP server. It is
// safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "shutting down showcase server")
		s.isShutdown.Store(true)

		if err := s.hub.Shutdown(ctx); err != nil {
			shutdownErr = err
		}

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()

		if server != nil {
			if err := server.Shutdown(ctx); err != nil {
				shutdownErr = err
			}
		}
	})

	return shutdownErr
}
