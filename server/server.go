// Package server exposes the interpreter and the growth estimators over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"github.com/alexshd/markovbench"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// requestIDHeader carries the per-request id on responses.
const requestIDHeader = "X-Request-ID"

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithEstimatorConfig replaces the estimator configuration (sizes, budget, workers).
func WithEstimatorConfig(cfg markovbench.Config) Option {
	return func(s *Server) {
		s.cfg = cfg
	}
}

// WithStepBudget sets the step budget for /api/run and both estimators.
func WithStepBudget(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.cfg.StepBudget = n
		}
	}
}

// Server holds the chi router and the estimator configuration.
type Server struct {
	router chi.Router
	logger *slog.Logger
	cfg    markovbench.Config
	flight singleflight.Group
}

// New creates a Server with all routes configured.
func New(opts ...Option) *Server {
	s := &Server{
		logger: slog.Default(),
		cfg:    markovbench.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.Logger == nil {
		s.cfg.Logger = s.logger
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/run", s.handleRun)
		r.Post("/time", s.handleTime)
		r.Post("/space", s.handleSpace)
	})

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLog tags each request with an id, logs it and records its latency.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		httpDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"duration", elapsed)
	})
}
