// Package metrics holds the Prometheus collectors exported on /metrics.
//
// Every method is safe on a nil *Metrics so callers that were built
// without metrics skip recording.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "demonlist"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	pageRows     *prometheus.HistogramVec
	pageLinks    *prometheus.CounterVec
	pageFailures *prometheus.CounterVec

	breakerState *prometheus.GaugeVec
	rateLimited  *prometheus.CounterVec
}

// New builds the collectors on a private registry, together with the
// process and Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		pageRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pagination",
			Name:      "page_rows",
			Help:      "Rows returned per page.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 75, 100},
		}, []string{"resource"}),
		pageLinks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pagination",
			Name:      "links_total",
			Help:      "Navigation links emitted, by relation.",
		}, []string{"resource", "rel"}),
		pageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pagination",
			Name:      "failures_total",
			Help:      "Pagination requests that failed, by error code.",
		}, []string{"resource", "code"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "0 closed, 1 open, 2 half-open.",
		}, []string{"name"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"scope"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.pageRows,
		m.pageLinks,
		m.pageFailures,
		m.breakerState,
		m.rateLimited,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one finished HTTP request. route is the
// matched route pattern, never the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

// ObservePage records the size and navigation links of a served page
func (m *Metrics) ObservePage(resource string, rows int, rels ...string) {
	if m == nil {
		return
	}
	m.pageRows.WithLabelValues(resource).Observe(float64(rows))
	for _, rel := range rels {
		m.pageLinks.WithLabelValues(resource, rel).Inc()
	}
}

// PageFailed counts a pagination request that ended with an error code
func (m *Metrics) PageFailed(resource, code string) {
	if m == nil {
		return
	}
	m.pageFailures.WithLabelValues(resource, code).Inc()
}

// SetBreakerState publishes a circuit breaker state as 0, 1 or 2
func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(float64(state))
}

// RateLimited counts a rejected request
func (m *Metrics) RateLimited(scope string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(scope).Inc()
}
