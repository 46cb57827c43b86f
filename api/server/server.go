package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"task-tracker/api"
	"task-tracker/api/middleware"
	"task-tracker/config"
	"task-tracker/logger"
	"task-tracker/tasks/events"
	"task-tracker/tasks/tracker"
	"time"
)

// Server wraps http.Server with graceful shutdown capabilities
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     *logger.Logger
}

// dependencies contains all the dependencies needed to create a server
type dependencies struct {
	tracker   tracker.Tracker
	publisher events.Publisher
	config    *config.Config
	logger    *logger.Logger
}

// New creates a new server with all HTTP configuration
func New(tr tracker.Tracker, publisher events.Publisher, cfg *config.Config, lg *logger.Logger) *Server {
	deps := &dependencies{
		tracker:   tr,
		publisher: publisher,
		config:    cfg,
		logger:    lg,
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address(),
			Handler:      newRouter(deps),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		config: cfg,
		logger: lg,
	}
}

// newRouter registers every route and wraps the mux in the middleware chain
func newRouter(deps *dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /tasks", api.NewCreateTaskHandler(deps.tracker, deps.logger))
	mux.HandleFunc("GET /tasks", api.NewListTasksHandler(deps.tracker, deps.logger))
	mux.HandleFunc("PATCH /tasks/{id}/complete", api.NewCompleteTaskHandler(deps.tracker, deps.logger))
	mux.HandleFunc("DELETE /tasks/{id}", api.NewDeleteTaskHandler(deps.tracker, deps.logger))
	mux.HandleFunc("GET /health", api.NewHealthHandler(deps.config, deps.tracker, deps.publisher, deps.logger))

	return applyMiddleware(mux, deps.logger)
}

// applyMiddleware wraps the handler with all necessary middleware
func applyMiddleware(handler http.Handler, lg *logger.Logger) http.Handler {
	// Last applied runs first
	wrapped := handler
	wrapped = middleware.LoggingMiddleware(lg)(wrapped)
	wrapped = middleware.RequestIDMiddleware()(wrapped)

	return wrapped
}

// Handler returns the fully wired HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.Run(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
// A listen failure is returned immediately.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", map[string]any{
			"address": s.config.Address(),
		})

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Server failed to start", map[string]any{
				"error": err.Error(),
			})
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	return s.shutdown()
}

// shutdown gracefully shuts down the server
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})

		return err
	}

	s.logger.Info("Server shutdown complete")
	return nil
}
