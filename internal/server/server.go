// Package server exposes the daemon's HTTP surface: upload intake, catalog
// listing, the byte-range streaming endpoint, and the server-sent event
// channel that pushes processing verdicts to connected viewers.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"streambox/internal/analysis"
	"streambox/internal/api"
	"streambox/internal/catalog"
	"streambox/internal/config"
	"streambox/internal/events"
	"streambox/internal/logging"
	"streambox/internal/notifications"
	"streambox/internal/objectstore"
)

// Server serves the streambox HTTP API.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *catalog.Store
	objects  objectstore.Store
	hub      *events.Hub
	worker   *analysis.Worker
	notifier notifications.Service

	addr     string
	server   *http.Server
	stopOnce sync.Once
}

// New wires the HTTP surface to its collaborators.
func New(cfg *config.Config, store *catalog.Store, objects objectstore.Store, hub *events.Hub, worker *analysis.Worker, notifier notifications.Service, logger *slog.Logger) (*Server, error) {
	if cfg == nil || store == nil || objects == nil || hub == nil || worker == nil {
		return nil, errors.New("server requires config, store, object store, hub, and worker")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger.With(logging.Component("http")),
		store:    store,
		objects:  objects,
		hub:      hub,
		worker:   worker,
		notifier: notifier,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/videos", s.handleVideos)
	mux.HandleFunc("/api/videos/", s.handleVideoItem)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/stream/", s.handleStream)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadHeaderTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
	return s, nil
}

// Handler returns the route mux, for tests that drive the server through
// httptest without a listener.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start binds the configured address and serves until the context ends.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Paths.APIBind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.addr = listener.Addr().String()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr reports the bound address, or "" before Start. The field is written
// once in Start and never mutated, so reads need no lock.
func (s *Server) Addr() string {
	return s.addr
}

// Stop shuts the server down gracefully within the configured timeout.
// Shutdown closes the listener itself. Stop is safe to call from multiple
// goroutines; later callers block until the first shutdown finishes.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}
