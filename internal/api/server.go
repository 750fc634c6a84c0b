// Package api serves the causal query pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness and build version
//	POST /v1/query     answer a query on a graph sent in the body
//	POST /v1/render    draw a graph as svg, png, pdf or dot
//
// Graphs travel in the request body as GRAPL or JSON text. Every response
// carries an X-Request-ID header; clients may supply their own UUID.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/causaltower/pkg/pipeline"
)

const (
	defaultTimeout   = 30 * time.Second
	maxBodyBytes     = 1 << 20
	shutdownDeadline = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// MaxNodes rejects larger graphs. Zero means pipeline.DefaultMaxNodes
	// and a negative value disables the limit.
	MaxNodes int

	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration
}

// Server holds the HTTP handlers.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	maxNodes int
	timeout  time.Duration
}

// New creates a server answering queries with runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxNodes == 0 {
		opts.MaxNodes = pipeline.DefaultMaxNodes
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	return &Server{
		runner:   runner,
		logger:   logger,
		maxNodes: opts.MaxNodes,
		timeout:  opts.Timeout,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
