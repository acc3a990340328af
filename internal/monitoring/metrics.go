// Package monitoring provides Prometheus metrics for the HTTP surface and
// tool execution.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. Each instance owns its registry so
// independent servers (and tests) never collide on collector registration.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Tool metrics
	ToolCalls    *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec
	ToolErrors   *prometheus.CounterVec

	// Artifact metrics
	ArtifactBytes *prometheus.CounterVec

	// Event metrics
	EventsDropped prometheus.Counter

	startTime time.Time
	Uptime    prometheus.GaugeFunc
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry:  registry,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentfs_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentfs_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		ToolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentfs_tool_calls_total",
				Help: "Total number of tool executions",
			},
			[]string{"tool", "status"},
		),
		ToolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentfs_tool_duration_seconds",
				Help:    "Tool execution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		ToolErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentfs_tool_errors_total",
				Help: "Total number of tool failures by error kind",
			},
			[]string{"tool", "kind"},
		),

		ArtifactBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentfs_artifact_bytes_total",
				Help: "Total bytes read or written by tools",
			},
			[]string{"kind"},
		),

		EventsDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "agentfs_events_dropped_total",
				Help: "Artifact events discarded due to a full queue",
			},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "agentfs_uptime_seconds",
			Help: "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler returns the exposition endpoint for this collector's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordToolCall records a tool execution outcome
func (m *Metrics) RecordToolCall(tool, status string, duration time.Duration) {
	m.ToolCalls.WithLabelValues(tool, status).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordToolError records a tool failure by kind
func (m *Metrics) RecordToolError(tool, kind string) {
	m.ToolErrors.WithLabelValues(tool, kind).Inc()
}

// RecordArtifact records bytes moved by a read or write
func (m *Metrics) RecordArtifact(kind string, bytes int) {
	m.ArtifactBytes.WithLabelValues(kind).Add(float64(bytes))
}
