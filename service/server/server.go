package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/brojonat/blinkshop/service/actions"
	"github.com/brojonat/blinkshop/service/config"
	"github.com/brojonat/blinkshop/service/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server for the actions service.
type Server struct {
	addr    string
	cfg     *config.Config
	svc     *actions.Service
	metrics *metrics.Metrics
	logger  *slog.Logger
	server  *http.Server
}

// New creates a new HTTP server with the given dependencies.
// The metrics is optional - if nil, the metrics endpoint won't be available.
func New(addr string, cfg *config.Config, svc *actions.Service, m *metrics.Metrics, logger *slog.Logger) *Server {
	return &Server{
		addr:    addr,
		cfg:     cfg,
		svc:     svc,
		metrics: m,
		logger:  logger,
	}
}

// Handler builds the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern, name string, h http.Handler) {
		mux.Handle(pattern, metrics.HTTPMetricsMiddleware(s.metrics, name)(h))
	}

	// Discovery
	route("GET /actions.json", "/actions.json", handleActionsJSON())

	// Tip
	route("GET "+actions.TipPath, actions.TipPath, handleGetAction(actions.TipMetadata()))
	route("POST "+actions.TipPath, actions.TipPath, handlePostAction(actions.ActionTip, s.svc.Tip, s.logger))

	// Checkout
	route("GET "+actions.CheckoutPath, actions.CheckoutPath, handleGetAction(actions.CheckoutMetadata()))
	route("POST "+actions.CheckoutPath, actions.CheckoutPath, handlePostAction(actions.ActionCheckout, s.svc.Checkout, s.logger))

	// QR codes (if a public base URL is configured)
	if s.cfg.PublicBaseURL != "" {
		route("GET "+actions.TipPath+"/qr", actions.TipPath+"/qr", handleActionQR(s.cfg.PublicBaseURL, actions.TipPath, s.logger))
		route("GET "+actions.CheckoutPath+"/qr", actions.CheckoutPath+"/qr", handleActionQR(s.cfg.PublicBaseURL, actions.CheckoutPath, s.logger))
		s.logger.Info("QR code endpoints enabled", "public_base_url", s.cfg.PublicBaseURL)
	} else {
		s.logger.Warn("PUBLIC_BASE_URL not configured, QR code endpoints disabled")
	}

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint (if metrics collector is configured)
	if s.metrics != nil {
		mux.Handle("GET /metrics", promhttp.Handler())
		s.logger.Info("Prometheus metrics endpoint enabled")
	}

	return requestIDMiddleware(corsMiddleware(mux))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting HTTP server", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// corsMiddleware adds CORS headers to all responses and handles OPTIONS preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set CORS headers for all requests
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Content-Encoding, Accept-Encoding")
		w.Header().Set("Access-Control-Max-Age", "3600")

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Pass through to next handler
		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// requestIDMiddleware tags each request with an ID, reusing the caller's if present.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// requestLogger returns logger annotated with the request's ID.
func requestLogger(r *http.Request, logger *slog.Logger) *slog.Logger {
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		return logger.With("request_id", id)
	}
	return logger
}
