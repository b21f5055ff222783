package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mukesh1352/navcart/internal/pathfind"
)

// Metrics holds all Prometheus collectors for the navigation service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Query metrics
	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec

	// Graph build metrics
	fetchDuration prometheus.Histogram
	buildRecords  *prometheus.CounterVec
	graphNodes    prometheus.Gauge
	graphEdges    prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a Metrics instance registered on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navcart_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "navcart_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navcart_queries_total",
				Help: "Total number of navigation queries by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),

		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "navcart_query_duration_seconds",
				Help:    "Navigation query latency including the store fetch",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "navcart_store_fetch_duration_seconds",
				Help:    "Time spent reading connectivity records from the graph store",
				Buckets: prometheus.DefBuckets,
			},
		),

		buildRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "navcart_graph_build_records_total",
				Help: "Connectivity records seen while building snapshots, by treatment",
			},
			[]string{"result"},
		),

		graphNodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "navcart_graph_nodes",
				Help: "Node count of the most recently built snapshot",
			},
		),

		graphEdges: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "navcart_graph_edges",
				Help: "Edge count of the most recently built snapshot",
			},
		),

		registry: registry,
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.queriesTotal,
		m.queryDuration,
		m.fetchDuration,
		m.buildRecords,
		m.graphNodes,
		m.graphEdges,
	)

	return m
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordQuery records one navigation query and its outcome.
func (m *Metrics) RecordQuery(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.queriesTotal.WithLabelValues(operation, outcome).Inc()
	m.queryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFetch records the duration of a store read.
func (m *Metrics) RecordFetch(duration time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(duration.Seconds())
}

// RecordBuild records the outcome of a snapshot build.
func (m *Metrics) RecordBuild(report pathfind.BuildReport, nodes, edges int) {
	if m == nil {
		return
	}
	m.buildRecords.WithLabelValues("accepted").Add(float64(report.Accepted))
	m.buildRecords.WithLabelValues("skipped").Add(float64(report.Skipped))
	m.buildRecords.WithLabelValues("defaulted").Add(float64(report.Defaulted))
	m.buildRecords.WithLabelValues("clamped").Add(float64(report.Clamped))
	m.buildRecords.WithLabelValues("overwritten").Add(float64(report.Overwritten))
	m.graphNodes.Set(float64(nodes))
	m.graphEdges.Set(float64(edges))
}

// Handler returns the Prometheus metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency per endpoint.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		m.RecordHTTPRequest(r.Method, endpointName(r.URL.Path), strconv.Itoa(wrapped.statusCode), time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// endpointName keeps label cardinality bounded.
func endpointName(path string) string {
	switch path {
	case "/graph":
		return "graph"
	case "/shortest-path":
		return "shortest_path"
	case "/route":
		return "route"
	case "/health":
		return "health"
	case "/ready":
		return "ready"
	case "/metrics":
		return "metrics"
	default:
		return "unknown"
	}
}
