// Package server exposes the conversion pipeline over HTTP.
//
// Routes:
//
//	GET  /                       health
//	GET  /health                 health
//	POST /convert                design export JSON → PPTX attachment
//	POST /convert-figma-to-pptx  alias of /convert
//	GET  /test-pptx              one-slide smoke-test deck
//	GET  /conversions            recent conversions, newest first
//	GET  /conversions/{id}       one conversion record
//
// Conversion settings come from the server's base options and may be
// overridden per request with the query parameters format, slide_numbers,
// safe_area and refresh. Failures are reported as JSON
// {"error": "...", "details": "..."} with a 4xx status for bad input and
// 500 for pipeline failures; no partial file is ever sent.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/figslides/pkg/pipeline"
)

// Defaults for [Server].
const (
	DefaultAddr            = ":8000"
	DefaultMaxBodyBytes    = 50 << 20
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Server serves conversions from a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	base   pipeline.Options
	logger *log.Logger

	maxBodyBytes    int64
	corsOrigins     []string
	historyLimit    int
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration

	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithOptions sets the conversion settings every request starts from.
func WithOptions(o pipeline.Options) Option { return func(s *Server) { s.base = o } }

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option { return func(s *Server) { s.maxBodyBytes = n } }

// WithCORSOrigins sets the allowed browser origins. "*" allows any; none
// disables CORS headers.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithHistoryLimit sets the default page size of /conversions.
func WithHistoryLimit(n int) Option { return func(s *Server) { s.historyLimit = n } }

// WithTimeouts sets the read, write and graceful shutdown timeouts. Zero
// values keep the defaults.
func WithTimeouts(read, write, shutdown time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
		if shutdown > 0 {
			s.shutdownTimeout = shutdown
		}
	}
}

// New creates a server. A nil runner gets an uncached one.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:          runner,
		maxBodyBytes:    DefaultMaxBodyBytes,
		corsOrigins:     []string{"*"},
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = DefaultMaxBodyBytes
	}
	s.base.Source = "http"
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.cors())

	r.Get("/", s.handleHealth)
	r.Get("/health", s.handleHealth)
	r.Post("/convert", s.handleConvert)
	r.Post("/convert-figma-to-pptx", s.handleConvert)
	r.Get("/test-pptx", s.handleTestPPTX)
	r.Route("/conversions", func(r chi.Router) {
		r.Get("/", s.handleListConversions)
		r.Get("/{id}", s.handleGetConversion)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
