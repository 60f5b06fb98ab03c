package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmgilman/nodeenv/errors"
	"github.com/jmgilman/nodeenv/internal/logging"
)

// NewRouter creates the HTTP router with all API endpoints.
func NewRouter(engine Engine, logger *logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(recovery(logger))
	r.Use(requestLogger(logger))

	h := NewHandler(engine)

	r.Get("/healthz", h.Healthz)

	r.Route("/managers", func(r chi.Router) {
		r.Get("/", h.GetManagers)
		r.Get("/preferred", h.GetPreferredManager)
		r.Get("/{type}", h.GetManager)
	})

	r.Get("/current", h.GetCurrent)

	r.Route("/project", func(r chi.Router) {
		r.Get("/", h.GetProject)
		r.Delete("/", h.DeleteProject)
		r.Get("/has-config", h.GetHasConfig)
	})

	r.Get("/match", h.GetMatch)
	r.Get("/plan", h.GetPlan)

	r.Route("/cache", func(r chi.Router) {
		r.Get("/stats", h.GetCacheStats)
		r.Post("/cleanup", h.PostCacheCleanup)
		r.Delete("/", h.DeleteCache)
		r.Delete("/{namespace}", h.DeleteCacheNamespace)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.WithContext(errors.New(errors.CodeNotFound, "route not found"), "path", r.URL.Path))
	})

	return r
}

// Server runs the API until its context is canceled.
type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, engine Engine, logger *logging.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(engine, logger),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "api server listening", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.WrapWithContext(err, errors.CodeInternal, "api server failed",
			map[string]any{"addr": s.httpServer.Addr})
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "api server shutdown failed")
	}
	s.logger.Info(ctx, "api server stopped")
	return nil
}
