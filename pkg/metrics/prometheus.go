// Package metrics provides Prometheus metrics for the Vero record service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// defaultLatencyBuckets covers sub-millisecond report evaluation up to slow exports.
var defaultLatencyBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000} //nolint:gochecknoglobals // read-only defaults

// Manager manages all Prometheus metrics for the Vero service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	enabled        bool
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Record collections
	recordsTotal *prometheus.GaugeVec
	mutations    *prometheus.CounterVec

	// Derived metrics
	reportEvaluations *prometheus.CounterVec
	reportLatency     *prometheus.HistogramVec

	// Import / export
	importRows *prometheus.CounterVec
	exports    *prometheus.CounterVec

	// Snapshots
	snapshotDuration prometheus.Histogram
	snapshotLastUnix prometheus.Gauge
	snapshotCount    prometheus.Counter
	snapshotErrors   prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec
	idempotentReplays   prometheus.Counter

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "vero",
		subsystem:      "records",
		latencyBuckets: defaultLatencyBuckets,
		enabled:        true,
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.constLabels)

	m.recordsTotal = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "total",
		Help:        "Current number of records per collection",
		ConstLabels: constLabels,
	}, []string{"collection"})

	m.mutations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "mutations_total",
		Help:        "Collection mutations by operation and outcome",
		ConstLabels: constLabels,
	}, []string{"collection", "op", "outcome"})

	m.reportEvaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "report_evaluations_total",
		Help:        "Derived report evaluations by report name",
		ConstLabels: constLabels,
	}, []string{"report"})

	m.reportLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "report_latency_milliseconds",
		Help:        "Derived report evaluation latency in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: constLabels,
	}, []string{"report"})

	m.importRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "import_rows_total",
		Help:        "Spreadsheet rows processed on import by outcome",
		ConstLabels: constLabels,
	}, []string{"collection", "outcome"})

	m.exports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "exports_total",
		Help:        "Exports served by collection and format",
		ConstLabels: constLabels,
	}, []string{"collection", "format"})

	m.snapshotDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_duration_milliseconds",
		Help:        "Snapshot persist duration in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: constLabels,
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_last_unix",
		Help:        "Unix timestamp of the last successful snapshot",
		ConstLabels: constLabels,
	})

	m.snapshotCount = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_count_total",
		Help:        "Total number of snapshots persisted",
		ConstLabels: constLabels,
	})

	m.snapshotErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_errors_total",
		Help:        "Total number of failed snapshot loads or saves",
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Total number of errors by endpoint",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.rateLimited = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rate_limited_total",
		Help:        "Requests rejected by the rate limiter",
		ConstLabels: constLabels,
	}, []string{"endpoint"})

	m.idempotentReplays = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "idempotent_replays_total",
		Help:        "Create requests short-circuited by a repeated Idempotency-Key",
		ConstLabels: constLabels,
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: constLabels,
	})
}

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m.enabled }


// Record collection metrics.

// UpdateRecordsTotal sets the record count of a collection.
func UpdateRecordsTotal(collection string, count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.recordsTotal.WithLabelValues(collection).Set(float64(count))
}

// RecordMutation counts one add/update/remove against a collection.
func RecordMutation(collection, op, outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.mutations.WithLabelValues(collection, op, outcome).Inc()
}

// Derived metric functions.

// RecordReportEvaluation counts a report evaluation and its latency.
func RecordReportEvaluation(report string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.reportEvaluations.WithLabelValues(report).Inc()
	globalManager.reportLatency.WithLabelValues(report).Observe(latencyMs)
}

// Import / export functions.

// RecordImportRows adds n processed rows with the given outcome.
func RecordImportRows(collection, outcome string, n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.importRows.WithLabelValues(collection, outcome).Add(float64(n))
}

// RecordExport counts an export download.
func RecordExport(collection, format string) {
	if !globalManager.enabled {
		return
	}
	globalManager.exports.WithLabelValues(collection, format).Inc()
}

// Snapshot functions.

// RecordSnapshot records a successful snapshot and its duration.
func RecordSnapshot(durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotDuration.Observe(durationMs)
	globalManager.snapshotCount.Inc()
	globalManager.snapshotLastUnix.Set(float64(time.Now().Unix()))
}

// RecordSnapshotError counts a failed snapshot load or save.
func RecordSnapshotError() {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotErrors.Inc()
}

// HTTP functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited(endpoint string) {
	if !globalManager.enabled {
		return
	}
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// RecordIdempotentReplay counts a create request answered from the idempotency cache.
func RecordIdempotentReplay() {
	if !globalManager.enabled {
		return
	}
	globalManager.idempotentReplays.Inc()
}

// System functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
