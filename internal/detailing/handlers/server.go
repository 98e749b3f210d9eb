// Package handlers provides the HTTP server and handlers for the detailing
// operations API, bridging the transport layer and business logic,
// translating between JSON payloads and domain models.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/glossworks/detailing/internal/detailing/auth"
	"go.uber.org/zap"
)

// Server wraps the HTTP server serving the detailing API.
type Server struct {
	httpServer   *http.Server
	logger       *zap.Logger
	httpEndpoint string
}

// NewServer constructs a Server listening on the given port.
func NewServer(httpPort int, logger *zap.Logger) *Server {
	return &Server{
		httpServer:   &http.Server{},
		logger:       logger,
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
	}
}

// RegisterRoutes mounts the API handlers and wraps them with the auth
// middleware. Mutating routes require a valid Bearer token.
func (s *Server) RegisterRoutes(
	assignments *AssignmentHandler,
	catalog *CatalogHandler,
	timesheets *TimesheetHandler,
	jwtSecret string,
) {
	mux := http.NewServeMux()
	assignments.Register(mux)
	catalog.Register(mux)
	timesheets.Register(mux)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.httpServer.Handler = auth.HTTPMiddleware(mux, jwtSecret)
	s.httpServer.Addr = s.httpEndpoint
}

// Start runs the HTTP server, returning on the first error.
func (s *Server) Start() error {
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server", zap.String("endpoint", s.httpEndpoint))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP serve error: %w", err)
		}
		close(errChan)
	}()

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Server stopped")
}
