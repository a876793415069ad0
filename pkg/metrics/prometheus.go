// Package metrics provides Prometheus metrics for the valuescore service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "valuescore"
	subsystem = "questionnaire"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	scoreBuckets []float64
	httpBuckets  []float64
	enabled      bool
	registry     prometheus.Registerer

	// Questionnaire
	submissions      prometheus.Counter
	totalScore       prometheus.Histogram
	ratingRejections *prometheus.CounterVec

	// History log
	historyEntries prometheus.Gauge
	historyDeletes prometheus.Counter
	historyLoads   *prometheus.CounterVec
	storageErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		scoreBuckets: []float64{1, 5, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		httpBuckets:  prometheus.DefBuckets,
		enabled:      true,
		registry:     prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.submissions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "submissions_total",
		Help:      "Total number of submitted questionnaires",
	})

	m.totalScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "total_score",
		Help:      "Distribution of computed total scores",
		Buckets:   m.scoreBuckets,
	})

	m.ratingRejections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rating_rejections_total",
		Help:      "Rating updates rejected by validation, by reason",
	}, []string{"reason"})

	m.historyEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "history_entries",
		Help:      "Number of entries in the in-memory history log",
	})

	m.historyDeletes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "history_deletes_total",
		Help:      "Total number of history entries deleted",
	})

	m.historyLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "history_loads_total",
		Help:      "History loads from storage, by result (ok, absent, malformed, unavailable, error)",
	}, []string{"result"})

	m.storageErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "storage_errors_total",
		Help:      "Storage failures, by operation",
	}, []string{"op"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.httpBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "HTTP error responses by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.memoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Heap bytes allocated",
	})

	m.goroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Number of goroutines",
	})
}

// UpdateSystemMemoryUsage sets the allocated heap bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if !m.enabled {
		return
	}
	m.memoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(n int) {
	if !m.enabled {
		return
	}
	m.goroutineCount.Set(float64(n))
}

// RecordSubmission counts a submission and observes its score.
func (m *Manager) RecordSubmission(score int) {
	if !m.enabled {
		return
	}
	m.submissions.Inc()
	m.totalScore.Observe(float64(score))
}

// RecordRatingRejection counts a rejected rating update.
func (m *Manager) RecordRatingRejection(reason string) {
	if !m.enabled {
		return
	}
	m.ratingRejections.WithLabelValues(reason).Inc()
}

// UpdateHistoryEntries sets the history size gauge.
func (m *Manager) UpdateHistoryEntries(n int) {
	if !m.enabled {
		return
	}
	m.historyEntries.Set(float64(n))
}

// RecordHistoryDelete counts a deleted history entry.
func (m *Manager) RecordHistoryDelete() {
	if !m.enabled {
		return
	}
	m.historyDeletes.Inc()
}

// RecordHistoryLoad counts a history load by result.
func (m *Manager) RecordHistoryLoad(result string) {
	if !m.enabled {
		return
	}
	m.historyLoads.WithLabelValues(result).Inc()
}

// RecordStorageError counts a failed storage operation.
func (m *Manager) RecordStorageError(op string) {
	if !m.enabled {
		return
	}
	m.storageErrors.WithLabelValues(op).Inc()
}

// RecordHTTPRequest counts a served request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an HTTP error response.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// Package-level helpers delegate to the global manager.

func RecordSubmission(score int)                  { globalManager.RecordSubmission(score) }
func RecordRatingRejection(reason string)         { globalManager.RecordRatingRejection(reason) }
func UpdateHistoryEntries(n int)                  { globalManager.UpdateHistoryEntries(n) }
func RecordHistoryDelete()                        { globalManager.RecordHistoryDelete() }
func RecordHistoryLoad(result string)             { globalManager.RecordHistoryLoad(result) }
func RecordStorageError(op string)                { globalManager.RecordStorageError(op) }
func RecordErrorByEndpoint(e, m, t string)        { globalManager.RecordErrorByEndpoint(e, m, t) }
func RecordHTTPRequest(e, m, s string, d float64) { globalManager.RecordHTTPRequest(e, m, s, d) }
func UpdateSystemMemoryUsage(bytes uint64)        { globalManager.UpdateSystemMemoryUsage(bytes) }
func UpdateSystemGoroutineCount(n int)            { globalManager.UpdateSystemGoroutineCount(n) }

// GetRegistry returns the registry backing the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
