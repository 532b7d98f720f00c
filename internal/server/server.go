// Package server exposes a map session over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	ws "github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/compmap/eventmap/internal/app"
	"github.com/compmap/eventmap/internal/config"
	"github.com/compmap/eventmap/internal/dispatcher"
)

// frameInterval is how often running animations are stepped.
const frameInterval = 40 * time.Millisecond

// Server serves one map session.
type Server struct {
	cfg        config.ServerConfig
	app        *app.App
	dispatcher *dispatcher.Dispatcher
	hub        *Hub
	logger     *slog.Logger

	router     chi.Router
	httpServer *http.Server
	upgrader   ws.Upgrader
}

// New creates a server. The app's delta callback is expected to feed hub.
func New(cfg config.ServerConfig, a *app.App, d *dispatcher.Dispatcher, hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:        cfg,
		app:        a,
		dispatcher: d,
		hub:        hub,
		logger:     logger,
	}
	s.upgrader = ws.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}
	if cfg.AllowAllOrigins {
		s.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", s.handleHealth)
	r.Get("/map.svg", s.handleSVG)
	r.Get("/ws", s.handleWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/events", s.handleEvent)
		r.With(s.requireReady).Get("/events.geojson", s.handleGeoJSON)
	})

	return r
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler { return s.router }

// requestLogger logs each request through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.DebugContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

// Start listens on the configured address and steps animations until ctx
// is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Map server listening", "addr", s.cfg.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.animate(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return s.Shutdown()
	})

	return g.Wait()
}

// animate advances view animations in wall-clock time.
func (s *Server) animate(ctx context.Context) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.app.Advance(now.Sub(last))
			last = now
		}
	}
}

// Shutdown disconnects WebSocket clients and stops the HTTP server.
func (s *Server) Shutdown() error {
	s.hub.Close()
	if s.httpServer == nil {
		return nil
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down map server")
	return s.httpServer.Shutdown(ctx)
}
