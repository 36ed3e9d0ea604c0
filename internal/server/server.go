// Package server exposes layout computation over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness check
//	GET  /version          build information
//	POST /v1/layout        lay out a deck for one container width
//	POST /v1/breakpoints   lay out a deck at every column count
//
// Request bodies are a deck ("name", "cards") merged with layout options
// ("width", "cell_width", "gutter", ...). Options missing from a request take
// the server's configured defaults.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cardgrid/pkg/pipeline"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultAddr = ":8080"

	// DefaultRateLimit is the sustained request rate allowed per client.
	DefaultRateLimit = 20.0

	// DefaultBurst is the number of requests a client may make at once.
	DefaultBurst = 40

	// DefaultMaxBodyBytes caps request bodies.
	DefaultMaxBodyBytes = 1 << 20

	DefaultShutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr string

	// RateLimit is requests per second per client IP. Zero disables limiting.
	RateLimit float64
	Burst     int

	MaxBodyBytes    int64
	ShutdownTimeout time.Duration

	// Defaults seeds the options of every request.
	Defaults pipeline.Options
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RateLimit > 0 && c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	// Requests decode over Defaults, so an explicit "width": 0 still
	// reaches the layout as 0.
	if c.Defaults.Width == 0 {
		c.Defaults.Width = pipeline.DefaultWidth
	}
}

// Server is the HTTP API.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	logger  *log.Logger
	limiter *clientLimiter
}

// New creates a server computing layouts with runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	cfg.SetDefaults()
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{cfg: cfg, runner: runner, logger: logger}
	if cfg.RateLimit > 0 {
		s.limiter = newClientLimiter(cfg.RateLimit, cfg.Burst)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, notFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, methodNotAllowed(r))
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.rateLimit)
		}
		r.Post("/layout", s.handleLayout)
		r.Post("/breakpoints", s.handleBreakpoints)
	})
	return r
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
// A clean shutdown returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
