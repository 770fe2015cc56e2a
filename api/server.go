// Package api provides the HTTP REST API for treatybot.
//
// Endpoints:
//
//	POST /api/ask        → answer a question over selected documents
//	POST /api/answer     → same pipeline, raw Genkit flow (genkit.Handler)
//	GET  /api/documents  → document selection groups
//	POST /api/feedback   → record reviewer feedback on an answer
//	GET  /api/feedback   → list recent feedback
//	GET  /health         → liveness probe
//	GET  /ready          → readiness probe
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: HTTP middleware (logging, recovery)
//   - health.go: health check endpoints
//   - ask.go: question answering endpoints
//   - documents.go: document group listing
//   - feedback.go: feedback endpoints
//   - response.go: JSON response helpers
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmeyers/treatybot/internal/answer"
	"github.com/lmeyers/treatybot/internal/feedback"
	"github.com/lmeyers/treatybot/internal/log"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = "127.0.0.1:3500"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response.
	// Completions can take a while, so this stays generous.
	WriteTimeout = 120 * time.Second

	// IdleTimeout is the maximum time to wait for the next request on
	// keep-alive connections.
	IdleTimeout = 120 * time.Second
)

// Server is the HTTP server for the treatybot REST API.
type Server struct {
	mux    *http.ServeMux
	logger log.Logger

	health    *HealthHandler
	ask       *AskHandler
	documents *DocumentsHandler
	feedback  *FeedbackHandler
}

// NewServer creates a new HTTP server with all routes registered.
// answerFlow may be nil, in which case the raw flow endpoint is skipped.
func NewServer(pool *pgxpool.Pool, pipeline Answerer, answerFlow *answer.Flow, fb *feedback.Store, defaultTemperature float64, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	mux := http.NewServeMux()

	s := &Server{
		mux:       mux,
		logger:    logger,
		health:    NewHealthHandler(pool, logger),
		ask:       NewAskHandler(pipeline, answerFlow, defaultTemperature, logger),
		documents: NewDocumentsHandler(),
		feedback:  NewFeedbackHandler(fb, logger),
	}

	s.health.RegisterRoutes(mux)
	s.ask.RegisterRoutes(mux)
	s.documents.RegisterRoutes(mux)
	s.feedback.RegisterRoutes(mux)

	return s
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery → logging → handler
func (s *Server) Handler() http.Handler {
	return chain(s.mux, recoveryMiddleware(s.logger), loggingMiddleware(s.logger))
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
