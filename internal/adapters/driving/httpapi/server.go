package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/resume-assistant/internal/logger"
)

// shutdownTimeout bounds how long in-flight requests may take after cancellation.
const shutdownTimeout = 10 * time.Second

// ErrMissingAnswerService is returned when no answer service is provided.
var ErrMissingAnswerService = errors.New("httpapi: answer service is required")

// Metrics records request outcomes and exposes the metrics endpoint.
type Metrics interface {
	ObserveRequest(route string, code int)
	Handler() http.Handler
}

// Config configures the HTTP server.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string

	// AllowedOrigins lists CORS origins. Empty or "*" allows any origin.
	AllowedOrigins []string
}

// Server is the HTTP serving layer.
type Server struct {
	cfg     Config
	answers driving.AnswerService
	metrics Metrics
	handler http.Handler
}

// NewServer creates a server. metrics may be nil, in which case
// /metrics is not registered.
func NewServer(cfg Config, answers driving.AnswerService, metrics Metrics) (*Server, error) {
	if answers == nil {
		return nil, ErrMissingAnswerService
	}
	if cfg.Addr == "" {
		cfg.Addr = domain.DefaultServerAddr
	}

	s := &Server{
		cfg:     cfg,
		answers: answers,
		metrics: metrics,
	}
	s.handler = newCORS(cfg.AllowedOrigins).Handler(s.routes())
	return s, nil
}

// Handler returns the root handler with all middleware applied.
// CORS wraps the router, so unmatched paths carry CORS headers too.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// newCORS allows the configured origins with any method and header.
// An empty origin list allows every origin.
func newCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, accessLogMiddleware, s.metricsMiddleware)

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/ask", s.handleAskGet).Methods(http.MethodGet)
	r.HandleFunc("/ask", s.handleAskPost).Methods(http.MethodPost)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()
	logger.Info("HTTP server listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}
