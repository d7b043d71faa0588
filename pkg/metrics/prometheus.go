// Package metrics provides Prometheus metrics for the hireview service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the hireview service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Applicant view metrics
	viewsOpen        prometheus.Gauge
	viewsOpened      prometheus.Counter
	viewsExpired     prometheus.Counter
	deriveLatency    prometheus.Histogram
	recordsLoaded    prometheus.Histogram
	recordsDropped   *prometheus.CounterVec
	fetches          *prometheus.CounterVec
	exports          prometheus.Counter
	exportRows       prometheus.Counter
	schedules        *prometheus.CounterVec
	scheduleReplays  prometheus.Counter
	sessionLifecycle *prometheus.CounterVec
	jobsCreated      prometheus.Counter
	applications     *prometheus.CounterVec

	// Backend client metrics
	backendRequests        *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hireview",
		subsystem:        "applicants",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place to declare every collector
	auto := promauto.With(m.registry)

	m.viewsOpen = auto.NewGauge(m.gaugeOpts("views_open", "Number of mounted applicant table views"))
	m.viewsOpened = auto.NewCounter(m.counterOpts("views_opened_total", "Total number of applicant table views opened"))
	m.viewsExpired = auto.NewCounter(m.counterOpts("views_expired_total", "Total number of idle views discarded by the sweeper"))
	m.deriveLatency = auto.NewHistogram(m.histogramOpts(
		"derive_latency_milliseconds",
		"Time spent deriving a filtered, sorted page",
		[]float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	))
	m.recordsLoaded = auto.NewHistogram(m.histogramOpts(
		"records_loaded",
		"Size of each applicant record set committed to a view",
		prometheus.ExponentialBuckets(1, 4, 8),
	))
	m.recordsDropped = auto.NewCounterVec(
		m.counterOpts("records_dropped_total", "Rows rejected at ingestion by reason"),
		[]string{"reason"},
	)
	m.fetches = auto.NewCounterVec(
		m.counterOpts("fetches_total", "Applicant fetches by outcome"),
		[]string{"outcome"},
	)
	m.exports = auto.NewCounter(m.counterOpts("exports_total", "Total number of CSV exports"))
	m.exportRows = auto.NewCounter(m.counterOpts("export_rows_total", "Total number of data rows written to CSV exports"))
	m.schedules = auto.NewCounterVec(
		m.counterOpts("schedules_total", "Bulk interview scheduling attempts by outcome"),
		[]string{"outcome"},
	)
	m.scheduleReplays = auto.NewCounter(m.counterOpts("schedule_replays_total", "Scheduling requests acknowledged as duplicates"))
	m.sessionLifecycle = auto.NewCounterVec(
		m.counterOpts("session_events_total", "Session login/logout/expiry events"),
		[]string{"event"},
	)
	m.jobsCreated = auto.NewCounter(m.counterOpts("jobs_created_total", "Job postings created through the service"))
	m.applications = auto.NewCounterVec(
		m.counterOpts("applications_total", "Job applications by outcome"),
		[]string{"outcome"},
	)

	m.backendRequests = auto.NewCounterVec(
		m.counterOpts("backend_requests_total", "Requests to the hiring backend by operation and status class"),
		[]string{"operation", "status"},
	)
	m.backendRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("backend_request_duration_milliseconds", "Hiring backend request latency", m.histogramBuckets),
		[]string{"operation"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
}

// View Metrics Functions.

// UpdateViewsOpen sets the number of mounted views.
func UpdateViewsOpen(count int) {
	globalManager.viewsOpen.Set(float64(count))
}

// RecordViewOpened increments the opened views counter.
func RecordViewOpened() {
	globalManager.viewsOpened.Inc()
}

// RecordViewExpired increments the expired views counter.
func RecordViewExpired() {
	globalManager.viewsExpired.Inc()
}

// RecordDeriveLatency records how long one derivation took.
func RecordDeriveLatency(latencyMs float64) {
	globalManager.deriveLatency.Observe(latencyMs)
}

// RecordRecordsLoaded observes the size of a committed record set.
func RecordRecordsLoaded(count int) {
	globalManager.recordsLoaded.Observe(float64(count))
}

// RecordRecordDropped increments the ingestion drop counter for reason.
func RecordRecordDropped(reason string) {
	globalManager.recordsDropped.WithLabelValues(reason).Inc()
}

// RecordFetch increments the fetch counter for outcome ("ok" or "failed").
func RecordFetch(outcome string) {
	globalManager.fetches.WithLabelValues(outcome).Inc()
}

// RecordExport counts one export and its data rows.
func RecordExport(rows int) {
	globalManager.exports.Inc()
	globalManager.exportRows.Add(float64(rows))
}

// RecordSchedule increments the scheduling counter for outcome.
func RecordSchedule(outcome string) {
	globalManager.schedules.WithLabelValues(outcome).Inc()
}

// RecordScheduleReplay counts a scheduling request answered from the dedupe window.
func RecordScheduleReplay() {
	globalManager.scheduleReplays.Inc()
}

// RecordSessionEvent counts login, logout and expiry events.
func RecordSessionEvent(event string) {
	globalManager.sessionLifecycle.WithLabelValues(event).Inc()
}

// RecordJobCreated counts one created posting.
func RecordJobCreated() {
	globalManager.jobsCreated.Inc()
}

// RecordApplication increments the application counter for outcome.
func RecordApplication(outcome string) {
	globalManager.applications.WithLabelValues(outcome).Inc()
}

// Backend Metrics Functions.

// RecordBackendRequest records one backend call with its status class and latency.
func RecordBackendRequest(operation, status string, latencyMs float64) {
	globalManager.backendRequests.WithLabelValues(operation, status).Inc()
	globalManager.backendRequestDuration.WithLabelValues(operation).Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

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
