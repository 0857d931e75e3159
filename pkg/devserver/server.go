// Package devserver serves the generated route table over HTTP while the
// watcher regenerates it, and notifies WebSocket clients of every run.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdul-hamid-achik/routegen/internal/logging"
	"github.com/abdul-hamid-achik/routegen/pkg/config"
	"github.com/abdul-hamid-achik/routegen/pkg/generator"
	"github.com/abdul-hamid-achik/routegen/pkg/sfc"
)

// Server holds the latest generation and serves it.
type Server struct {
	cfg      *config.Config
	log      *slog.Logger
	reader   *sfc.Reader
	hub      *Hub
	registry *prometheus.Registry
	metrics  *metrics
	router   chi.Router

	mu      sync.RWMutex
	result  *generator.Result
	lastErr error
}

// New creates a Server for cfg. Paths in cfg must already be absolute.
func New(cfg *config.Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = logging.Discard()
	}

	reader, err := sfc.NewCachingReader(cfg.Pages, sfc.DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	hub := NewHub()
	registry := prometheus.NewRegistry()

	s := &Server{
		cfg:      cfg,
		log:      log,
		reader:   reader,
		hub:      hub,
		registry: registry,
		metrics:  newMetrics(registry, hub),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/routes.js", s.handleModule)
	r.Get("/routes.json", s.handleJSON)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/ws", s.hub.HandleWebSocket)

	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Latest returns the last successful result and the error of the last run,
// if it failed.
func (s *Server) Latest() (*generator.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.lastErr
}

// Regenerate runs the generator, stores the outcome and notifies clients.
// A failed run keeps the previous result available.
func (s *Server) Regenerate(changed ...string) (*generator.Result, error) {
	timer := prometheus.NewTimer(s.metrics.duration)
	result, err := generator.Generate(s.cfg, generator.Options{Logger: s.log, Reader: s.reader})
	timer.ObserveDuration()

	s.mu.Lock()
	if err != nil {
		s.lastErr = err
	} else {
		s.result = result
		s.lastErr = nil
	}
	s.mu.Unlock()

	if err != nil {
		s.metrics.generations.WithLabelValues("error").Inc()
		s.log.Error("route generation failed", "error", err)
		s.hub.Broadcast(Message{Type: MessageError, Files: changed, Error: err.Error()})
		return nil, err
	}

	s.metrics.generations.WithLabelValues("success").Inc()
	s.metrics.routes.Set(float64(result.RouteCount()))
	s.log.Info("routes generated",
		"routes", result.RouteCount(),
		"written", result.Written,
		"duration", result.Duration.Round(time.Millisecond))
	s.hub.Broadcast(Message{Type: MessageRoutes, Routes: result.RouteCount(), Files: changed})
	return result, nil
}

// HandleChanges is the watcher callback: it evicts changed files from the
// block cache and regenerates.
func (s *Server) HandleChanges(changed []string) {
	for _, f := range changed {
		s.reader.Forget(f)
	}
	s.log.Debug("pages changed", "files", changed)
	_, _ = s.Regenerate(changed...)
}

// ListenAndServe serves on cfg.Dev.Addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Dev.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Debug("dev server listening", "addr", s.cfg.Dev.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	result, err := s.Latest()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if result == nil {
		http.Error(w, "routes not generated yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = io.WriteString(w, result.Code)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	result, err := s.Latest()
	switch {
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	case result == nil:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "routes not generated yet"})
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
