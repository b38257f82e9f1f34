package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/kokoro-ai/kokoro/internal/ratelimit"
	"github.com/kokoro-ai/kokoro/internal/session"
)

// Server is the kokoro HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	handlers   *Handlers
	logger     *slog.Logger
}

// ServerConfig holds all dependencies and configuration for creating a Server.
type ServerConfig struct {
	// Required dependencies.
	Service *session.Service
	Logger  *slog.Logger

	// Optional dependencies (nil = disabled).
	MCPServer *mcpserver.MCPServer
	Limiter   ratelimit.Limiter

	// HTTP server settings.
	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	Version             string
	MaxRequestBodyBytes int64
}

// New creates a new HTTP server with all routes configured.
func New(cfg ServerConfig) *Server {
	h := NewHandlers(cfg.Service, cfg.Logger, cfg.Version)

	mux := http.NewServeMux()

	// The submit and combine routes reach the AI provider, so they carry
	// a per-client rate limit; read-only routes do not.
	limited := ratelimit.Middleware(cfg.Limiter, ratelimit.IPKeyFunc, func(r *http.Request) string {
		return RequestIDFromContext(r.Context())
	})

	mux.Handle("POST /v1/orbs", limited(http.HandlerFunc(h.HandleSubmit)))
	mux.HandleFunc("GET /v1/orbs", h.HandleList)
	mux.HandleFunc("DELETE /v1/orbs/{id}", h.HandleRemove)
	mux.HandleFunc("DELETE /v1/orbs", h.HandleClear)
	mux.Handle("POST /v1/orbs/combine", limited(http.HandlerFunc(h.HandleCombine)))
	mux.HandleFunc("POST /v1/feedback", h.HandleSubmitFeedback)
	mux.HandleFunc("GET /v1/feedback/stats", h.HandleFeedbackStats)
	mux.HandleFunc("GET /v1/analytics", h.HandleAnalytics)
	mux.HandleFunc("GET /v1/settings", h.HandleGetSettings)
	mux.HandleFunc("PUT /v1/settings", h.HandlePutSettings)
	mux.HandleFunc("GET /health", h.HandleHealth)

	if cfg.MCPServer != nil {
		mcpHTTP := mcpserver.NewStreamableHTTPServer(cfg.MCPServer)
		mux.Handle("/mcp", mcpHTTP)
		cfg.Logger.Info("mcp enabled, serving at /mcp")
	}

	// Middleware chain (outermost executes first):
	// request ID → security headers → tracing → logging → recovery → handler.
	var handler http.Handler = mux
	handler = recoveryMiddleware(cfg.Logger, handler)
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = tracingMiddleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = http.MaxBytesHandler(handler, cfg.MaxRequestBodyBytes)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler:  handler,
		handlers: h,
		logger:   cfg.Logger,
	}
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
