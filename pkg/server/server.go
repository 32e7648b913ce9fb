package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/relcat/pkg/catalog"
	"github.com/matzehuels/relcat/pkg/errors"
)

// shutdownTimeout bounds graceful shutdown once the serve context ends.
const shutdownTimeout = 5 * time.Second

// BuildFunc produces a complete catalog. It is called once per rebuild.
type BuildFunc func(ctx context.Context) (*catalog.Catalog, error)

// Server serves the most recent successfully built catalog.
type Server struct {
	build  BuildFunc
	logger *log.Logger
	router chi.Router

	mu      sync.RWMutex
	cat     *catalog.Catalog
	builtAt time.Time
	lastErr error

	rebuildMu sync.Mutex
}

// New creates a server around build. No catalog is loaded until the first
// call to Rebuild.
func New(build BuildFunc, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{build: build, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/rebuild", s.handleRebuild)

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", s.handleProjects)
		r.Get("/{id}", s.handleProject)
		r.Get("/{id}/series/{version}", s.handleSeries)
		r.Get("/{id}/releases/{version}", s.handleRelease)
	})
	return r
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Catalog returns the current catalog, or nil before the first successful
// build.
func (s *Server) Catalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cat
}

// Rebuild builds a new catalog and swaps it in. On failure the previous
// catalog stays in place and the error is reported by /healthz.
func (s *Server) Rebuild(ctx context.Context) error {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	start := time.Now()
	cat, err := s.build(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err != nil {
		s.logger.Error("rebuild failed", "err", err)
		return err
	}
	s.cat = cat
	s.builtAt = time.Now()
	s.logger.Info("catalog rebuilt", "projects", len(cat.Projects), "duration", time.Since(start))
	return nil
}

func (s *Server) snapshot() (*catalog.Catalog, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cat, s.builtAt, s.lastErr
}

// ListenAndServe serves the API on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs one debug line per request through logger.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
