package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Tree operation metrics
	treeOperationsTotal   *prometheus.CounterVec
	treeOperationDuration *prometheus.HistogramVec
	treeApproxSize        prometheus.Gauge

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec

	// gatherer backs the /metrics scrape endpoint NewRouter wires up; it
	// matches whatever registry the metrics above were registered against.
	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers all Prometheus metrics against the
// default global registry, the registry /metrics serves for a normally
// started process.
func NewMetrics() *Metrics {
	return newMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewMetricsWithRegistry creates and registers all Prometheus metrics
// against a caller-supplied registry. Tests that construct more than one
// Metrics in the same process should each pass a fresh
// prometheus.NewRegistry(), since the default registry panics on duplicate
// metric registration.
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	return newMetrics(reg, reg)
}

func newMetrics(registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(registerer)
	m := &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "msetd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "msetd_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "msetd_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		treeOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "msetd_tree_operations_total",
				Help: "Total number of multiset operations (insert, remove, contains, traverse)",
			},
			[]string{"operation", "status"},
		),

		treeOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "msetd_tree_operation_duration_seconds",
				Help:    "Multiset operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		treeApproxSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "msetd_tree_approx_size",
				Help: "Approximate number of occurrences held by the multiset",
			},
		),

		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "msetd_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),

		gatherer: gatherer,
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordTreeOperation records a multiset operation
func (m *Metrics) RecordTreeOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}

	m.treeOperationsTotal.WithLabelValues(operation, status).Inc()
	m.treeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateTreeApproxSize updates the approximate occupancy gauge.
func (m *Metrics) UpdateTreeApproxSize(size int64) {
	m.treeApproxSize.Set(float64(size))
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
