// Package server exposes ranking over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"vsm/internal/domain"
	"vsm/internal/metrics"
	"vsm/internal/port"
)

// Engine is the ranking surface the server needs.
type Engine interface {
	port.Ranker
	Reload() (domain.Stats, error)
	Stats() domain.Stats
	CacheStats() (domain.CacheStats, bool)
}

type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// Defaults applied when a request leaves a parameter out.
	Defaults domain.RankOptions
}

type Server struct {
	engine  Engine
	metrics *metrics.Metrics
	logger  *logrus.Entry
	opts    Options
	router  *http.ServeMux
	paths   []string
}

func New(engine Engine, m *metrics.Metrics, logger *logrus.Entry, opts Options) *Server {
	s := &Server{
		engine:  engine,
		metrics: m,
		logger:  logger,
		opts:    opts,
		router:  http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.handle("/search", http.HandlerFunc(s.handleSearch))
	s.handle("/reload", http.HandlerFunc(s.handleReload))
	s.handle("/stats", http.HandlerFunc(s.handleStats))
	s.handle("/health", http.HandlerFunc(s.handleHealth))
	if s.metrics != nil {
		s.handle("/metrics", s.metrics.Handler())
	}
}

func (s *Server) handle(path string, h http.Handler) {
	s.router.Handle(path, h)
	s.paths = append(s.paths, path)
}

// Handler returns the routed handler wrapped in metrics middleware.
func (s *Server) Handler() http.Handler {
	if s.metrics == nil {
		return s.router
	}
	return s.metrics.Middleware(s.router, s.paths...)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.opts.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
