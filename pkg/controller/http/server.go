package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/newsdesk/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr           string
	dispatchSecret string
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithDispatchSecret sets the HMAC secret of POST /dispatch. Without it the
// endpoint is not mounted.
func WithDispatchSecret(secret string) Option {
	return func(c *config) {
		c.dispatchSecret = secret
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	dispatch *DispatchHandler
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	pipelineUC interfaces.PipelineUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr: "localhost:8080",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	health := NewHealthHandler(pipelineUC)
	router.Get("/health", health.Handle)

	runs := NewRunsHandler(pipelineUC)
	router.Get("/runs/latest", runs.HandleLatest)

	var dispatch *DispatchHandler
	if cfg.dispatchSecret != "" {
		dispatch = NewDispatchHandler(cfg.dispatchSecret, pipelineUC)
		router.Post("/dispatch", dispatch.Handle)
	}

	server := &Server{
		dispatch: dispatch,
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}

// Shutdown stops accepting requests, then waits for runs started by POST /dispatch
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.Server.Shutdown(ctx); err != nil {
		return err
	}
	if s.dispatch == nil {
		return nil
	}
	return s.dispatch.Wait(ctx)
}
