// Package api exposes the optional status endpoint served during a crawl.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/corpuskit/harvester/internal/metrics"
)

// Server serves liveness, readiness, and Prometheus metrics while a crawl
// runs. It is off by default and carries no crawl control surface.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewServer constructs a Server listening on the given port.
func NewServer(port int, logger *zap.Logger) *Server {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", metrics.Handler())

	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the underlying router (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		s.logger.Info("status server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Warn("status server stopped", zap.Error(err))
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown status server: %w", err)
	}
	return nil
}
