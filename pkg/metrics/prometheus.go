package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the Archer service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Roster
	rosterCoaches           prometheus.Gauge
	rosterBatches           prometheus.Gauge
	rosterRowsSkipped       *prometheus.CounterVec
	rosterDuplicateCoaches  prometheus.Counter
	rosterUnknownCoachBatch prometheus.Counter

	// Session and report
	gradeChanges       *prometheus.CounterVec
	sessionTotalScore  prometheus.Gauge
	verdicts           *prometheus.CounterVec
	signatureChanges   *prometheus.CounterVec
	reportsGenerated   prometheus.Counter
	reportBuildLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "archer",
		subsystem:        "report",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	latencyBuckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50}

	m.rosterCoaches = auto.NewGauge(m.gauge("roster_coaches", "Number of coaches in the roster"))
	m.rosterBatches = auto.NewGauge(m.gauge("roster_batches", "Number of batches across all coaches"))
	m.rosterRowsSkipped = auto.NewCounterVec(
		m.counter("roster_rows_skipped_total", "Roster source rows dropped while loading"),
		[]string{"reason"},
	)
	m.rosterDuplicateCoaches = auto.NewCounter(
		m.counter("roster_duplicate_coaches_total", "Coach additions rejected as duplicates"))
	m.rosterUnknownCoachBatch = auto.NewCounter(
		m.counter("roster_unknown_coach_batches_total", "Batch additions ignored because the coach does not exist"))

	m.gradeChanges = auto.NewCounterVec(
		m.counter("grade_changes_total", "Skill grade assignments by grade"),
		[]string{"grade"},
	)
	m.sessionTotalScore = auto.NewGauge(m.gauge("session_total_score", "Current total score of the session"))
	m.verdicts = auto.NewCounterVec(
		m.counter("verdicts_total", "Verdicts computed by status"),
		[]string{"status"},
	)
	m.signatureChanges = auto.NewCounterVec(
		m.counter("signature_changes_total", "Coach signature updates by action"),
		[]string{"action"},
	)
	m.reportsGenerated = auto.NewCounter(m.counter("reports_generated_total", "Reports built"))
	m.reportBuildLatency = auto.NewHistogram(
		m.histogram("report_build_latency_milliseconds", "Time to build a report snapshot", latencyBuckets))

	m.httpRequests = auto.NewCounterVec(
		m.counter("http_requests_total", "Total number of HTTP requests"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogram("http_request_duration_seconds", "HTTP request duration in seconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counter("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counter("errors_by_endpoint_total", "Errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogram(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Roster metrics.

// UpdateRosterSize sets the coach and batch gauges.
func (m *Manager) UpdateRosterSize(coaches, batches int) {
	if !m.enabled {
		return
	}
	m.rosterCoaches.Set(float64(coaches))
	m.rosterBatches.Set(float64(batches))
}

// RecordRosterRowSkipped counts a dropped source row.
func (m *Manager) RecordRosterRowSkipped(reason string) {
	if m.enabled {
		m.rosterRowsSkipped.WithLabelValues(reason).Inc()
	}
}

// RecordDuplicateCoach counts a rejected coach addition.
func (m *Manager) RecordDuplicateCoach() {
	if m.enabled {
		m.rosterDuplicateCoaches.Inc()
	}
}

// RecordUnknownCoachBatch counts a batch addition for a missing coach.
func (m *Manager) RecordUnknownCoachBatch() {
	if m.enabled {
		m.rosterUnknownCoachBatch.Inc()
	}
}

// Session and report metrics.

// RecordGradeChange counts a grade assignment.
func (m *Manager) RecordGradeChange(grade string) {
	if m.enabled {
		m.gradeChanges.WithLabelValues(grade).Inc()
	}
}

// UpdateSessionTotal sets the current total score.
func (m *Manager) UpdateSessionTotal(total int) {
	if m.enabled {
		m.sessionTotalScore.Set(float64(total))
	}
}

// RecordVerdict counts a computed verdict.
func (m *Manager) RecordVerdict(status string) {
	if m.enabled {
		m.verdicts.WithLabelValues(status).Inc()
	}
}

// RecordSignatureChange counts a signature set, clear or rejection.
func (m *Manager) RecordSignatureChange(action string) {
	if m.enabled {
		m.signatureChanges.WithLabelValues(action).Inc()
	}
}

// RecordReportGenerated counts a built report and its latency in milliseconds.
func (m *Manager) RecordReportGenerated(latencyMs float64) {
	if !m.enabled {
		return
	}
	m.reportsGenerated.Inc()
	m.reportBuildLatency.Observe(latencyMs)
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in seconds.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordErrorByEndpoint records an error with endpoint, method and type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if m.enabled {
		m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// System metrics.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	if m.enabled {
		m.systemGCPauseTime.Observe(pauseMs)
	}
}

// Package-level recorders backed by the global manager.

// UpdateRosterSize sets the coach and batch gauges.
func UpdateRosterSize(coaches, batches int) { globalManager.UpdateRosterSize(coaches, batches) }

// RecordRosterRowSkipped counts a dropped source row.
func RecordRosterRowSkipped(reason string) { globalManager.RecordRosterRowSkipped(reason) }

// RecordDuplicateCoach counts a rejected coach addition.
func RecordDuplicateCoach() { globalManager.RecordDuplicateCoach() }

// RecordUnknownCoachBatch counts a batch addition for a missing coach.
func RecordUnknownCoachBatch() { globalManager.RecordUnknownCoachBatch() }

// RecordGradeChange counts a grade assignment.
func RecordGradeChange(grade string) { globalManager.RecordGradeChange(grade) }

// UpdateSessionTotal sets the current total score.
func UpdateSessionTotal(total int) { globalManager.UpdateSessionTotal(total) }

// RecordVerdict counts a computed verdict.
func RecordVerdict(status string) { globalManager.RecordVerdict(status) }

// RecordSignatureChange counts a signature set, clear or rejection.
func RecordSignatureChange(action string) { globalManager.RecordSignatureChange(action) }

// RecordReportGenerated counts a built report and its latency in milliseconds.
func RecordReportGenerated(latencyMs float64) { globalManager.RecordReportGenerated(latencyMs) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration records HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordErrorByEndpoint records an error with endpoint, method and type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.RecordSystemGCPauseTime(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
