package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the application.
// Following the explicit dependency injection pattern, this struct
// is passed to all components that need to record metrics.
type Metrics struct {
	// Solana RPC Metrics
	solanaRPCCallsTotal   *prometheus.CounterVec
	solanaRPCCallDuration *prometheus.HistogramVec

	// Action Metrics
	actionsBuiltTotal    *prometheus.CounterVec
	actionsRejectedTotal *prometheus.CounterVec
	actionLamports       *prometheus.HistogramVec
	balanceCheckSkipped  *prometheus.CounterVec

	// HTTP Metrics
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec

	// NATS Metrics
	natsMessagesPublished *prometheus.CounterVec
	natsPublishDuration   *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		// Solana RPC Metrics
		solanaRPCCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solana_rpc_calls_total",
				Help: "Total number of Solana RPC calls by method and status",
			},
			[]string{"method", "status", "endpoint"},
		),
		solanaRPCCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solana_rpc_call_duration_seconds",
				Help:    "Duration of Solana RPC calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"method", "endpoint"},
		),

		// Action Metrics
		actionsBuiltTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actions_built_total",
				Help: "Total number of unsigned action transactions returned to clients",
			},
			[]string{"action"},
		),
		actionsRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actions_rejected_total",
				Help: "Total number of action requests that failed, by reason",
			},
			[]string{"action", "reason"},
		),
		actionLamports: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "action_transfer_lamports",
				Help:    "Lamports moved by built action transactions",
				Buckets: prometheus.ExponentialBuckets(1_000_000, 10, 6), // 0.001 SOL .. 100 SOL
			},
			[]string{"action"},
		),
		balanceCheckSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "actions_balance_check_skipped_total",
				Help: "Total number of action requests that skipped the balance check",
			},
			[]string{"action"},
		),

		// HTTP Metrics
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"handler", "method", "status"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),

		// NATS Metrics
		natsMessagesPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nats_messages_published_total",
				Help: "Total number of NATS messages published",
			},
			[]string{"subject", "status"},
		),
		natsPublishDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nats_publish_duration_seconds",
				Help:    "Duration of NATS publish operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"subject"},
		),
	}
}

// Solana RPC metric helpers

// RecordRPCCall records a Solana RPC call with duration.
func (m *Metrics) RecordRPCCall(method, status, endpoint string, duration float64) {
	m.solanaRPCCallsTotal.WithLabelValues(method, status, endpoint).Inc()
	m.solanaRPCCallDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// Action metric helpers

// RecordActionBuilt records a transaction returned to a client.
func (m *Metrics) RecordActionBuilt(action string, lamports uint64) {
	m.actionsBuiltTotal.WithLabelValues(action).Inc()
	m.actionLamports.WithLabelValues(action).Observe(float64(lamports))
}

// RecordActionRejected records a failed action request.
// reason is one of "client", "insufficient_funds", "upstream" or "internal".
func (m *Metrics) RecordActionRejected(action, reason string) {
	m.actionsRejectedTotal.WithLabelValues(action, reason).Inc()
}

// RecordBalanceCheckSkipped records a request that opted out of the balance check.
func (m *Metrics) RecordBalanceCheckSkipped(action string) {
	m.balanceCheckSkipped.WithLabelValues(action).Inc()
}

// HTTP metric helpers

// RecordHTTPRequest records an HTTP request with duration.
func (m *Metrics) RecordHTTPRequest(handler, method string, statusCode int, duration float64) {
	status := statusCodeToString(statusCode)
	m.httpRequestDuration.WithLabelValues(handler, method, status).Observe(duration)
	m.httpRequestsTotal.WithLabelValues(handler, method, status).Inc()
}

// NATS metric helpers

// RecordNATSPublish records a NATS publish operation.
func (m *Metrics) RecordNATSPublish(subject, status string, duration float64) {
	m.natsMessagesPublished.WithLabelValues(subject, status).Inc()
	m.natsPublishDuration.WithLabelValues(subject).Observe(duration)
}

// Helper functions

func statusCodeToString(code int) string {
	// Group status codes by class
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "unknown"
	}
}
