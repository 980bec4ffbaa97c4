package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry holds all Prometheus metrics for the backoffice. Each
// instance owns its registry so tests can build as many as they need.
type MetricsRegistry struct {
	registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec
	RateLimitedTotal     prometheus.Counter

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	AuthzDecisionsTotal    *prometheus.CounterVec
	LarpTransitionsTotal   *prometheus.CounterVec
	LocationApprovalsTotal *prometheus.CounterVec
	CompletionJobDuration  prometheus.Histogram
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsRegistry{
		registry: reg,

		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "larpilot_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "larpilot_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "larpilot_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),
		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "larpilot_http_rate_limited_total",
				Help: "Requests rejected by the per-IP rate limiter",
			},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "larpilot_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "larpilot_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		AuthzDecisionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "larpilot_authz_decisions_total",
				Help: "Authorization decisions by permission and outcome",
			},
			[]string{"permission", "allowed"},
		),
		LarpTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "larpilot_larp_transitions_total",
				Help: "LARP lifecycle transition attempts by transition and result",
			},
			[]string{"transition", "result"},
		),
		LocationApprovalsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "larpilot_location_approvals_total",
				Help: "Location moderation decisions by resulting status",
			},
			[]string{"status"},
		),
		CompletionJobDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "larpilot_completion_job_duration_seconds",
				Help:    "Duration of the LARP completion sweep",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordAuthzDecision lets the registry serve as the authorizer's recorder.
func (m *MetricsRegistry) RecordAuthzDecision(permission string, allowed bool) {
	m.AuthzDecisionsTotal.WithLabelValues(permission, strconv.FormatBool(allowed)).Inc()
}

func (m *MetricsRegistry) RecordTransition(transition, result string) {
	m.LarpTransitionsTotal.WithLabelValues(transition, result).Inc()
}

func (m *MetricsRegistry) RecordLocationDecision(status string) {
	m.LocationApprovalsTotal.WithLabelValues(status).Inc()
}

func (m *MetricsRegistry) RecordCacheLookup(pattern string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(pattern).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(pattern).Inc()
}

// Handler serves this registry in the Prometheus exposition format.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry to tests.
func (m *MetricsRegistry) Gatherer() prometheus.Gatherer {
	return m.registry
}
