// Package metrics provides Prometheus metrics for the grapple scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Scoring metrics
	eventsRecorded    *prometheus.CounterVec
	eventsUndone      prometheus.Counter
	eventsDuplicate   prometheus.Counter
	eventsRejected    prometheus.Counter
	matchesStarted    prometheus.Counter
	matchesCompleted  *prometheus.CounterVec
	ridingTimeBonuses prometheus.Counter
	activeMatches     prometheus.Gauge

	// Archive pipeline metrics
	archiveQueueSize        prometheus.Gauge
	archiveQueueCapacity    prometheus.Gauge
	archiveQueueUtilization prometheus.Gauge
	archiveEnqueues         prometheus.Counter
	archiveEnqueueErrors    prometheus.Counter
	archiveDequeues         prometheus.Counter
	archiveWrites           prometheus.Counter
	archiveErrors           prometheus.Counter
	archiveWriteLatency     prometheus.Histogram
	archivedMatches         prometheus.Gauge
	archiverWorkers         prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collector noise.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "grapple",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates and registers all metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsRecorded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_recorded_total",
			Help:      "Total scoring events recorded, by action type",
		},
		[]string{"action"},
	)

	m.eventsUndone = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_undone_total",
		Help:      "Total scoring events removed via undo",
	})

	m.eventsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_duplicate_total",
		Help:      "Total duplicate event submissions detected",
	})

	m.eventsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_rejected_total",
		Help:      "Total event submissions rejected by match rules",
	})

	m.matchesStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_started_total",
		Help:      "Total matches created",
	})

	m.matchesCompleted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "matches_completed_total",
			Help:      "Total matches completed, by win type",
		},
		[]string{"win_type"},
	)

	m.ridingTimeBonuses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "riding_time_bonuses_total",
		Help:      "Total riding-time bonus points awarded",
	})

	m.activeMatches = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_matches",
		Help:      "Number of live matches currently being scored",
	})

	m.archiveQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_queue_size",
		Help:      "Current size of the finalized-match archive queue",
	})

	m.archiveQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_queue_capacity",
		Help:      "Capacity of the archive queue",
	})

	m.archiveQueueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_queue_utilization_ratio",
		Help:      "Archive queue fill ratio",
	})

	m.archiveEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_enqueues_total",
		Help:      "Total match records enqueued for archiving",
	})

	m.archiveEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_enqueue_errors_total",
		Help:      "Total failed archive enqueues (backpressure or closed)",
	})

	m.archiveDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_dequeues_total",
		Help:      "Total match records dequeued by archiver workers",
	})

	m.archiveWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_writes_total",
		Help:      "Total match records written to the archive store",
	})

	m.archiveErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_errors_total",
		Help:      "Total archive store write errors",
	})

	m.archiveWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_write_latency_milliseconds",
		Help:      "Archive store write latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.archivedMatches = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archived_matches",
		Help:      "Number of finalized matches in the archive store",
	})

	m.archiverWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archiver_workers",
		Help:      "Number of archiver workers",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// GetRegistry returns the custom registry served on /healthz.
func GetRegistry() *prometheus.Registry { return customRegistry }

// Package-level helpers delegating to the global manager.

func RecordEventRecorded(action string) { globalManager.eventsRecorded.WithLabelValues(action).Inc() }
func RecordEventUndone()                { globalManager.eventsUndone.Inc() }
func RecordEventDuplicate()             { globalManager.eventsDuplicate.Inc() }
func RecordEventRejected()              { globalManager.eventsRejected.Inc() }
func RecordMatchStarted()               { globalManager.matchesStarted.Inc() }
func RecordMatchCompleted(winType string) {
	globalManager.matchesCompleted.WithLabelValues(winType).Inc()
}
func RecordRidingTimeBonus()     { globalManager.ridingTimeBonuses.Inc() }
func UpdateActiveMatches(n int)  { globalManager.activeMatches.Set(float64(n)) }
func UpdateArchiveQueueSize(n int) {
	globalManager.archiveQueueSize.Set(float64(n))
}
func UpdateArchiveQueueCapacity(n int) {
	globalManager.archiveQueueCapacity.Set(float64(n))
}
func UpdateArchiveQueueUtilization(ratio float64) {
	globalManager.archiveQueueUtilization.Set(ratio)
}
func RecordArchiveEnqueue()      { globalManager.archiveEnqueues.Inc() }
func RecordArchiveEnqueueError() { globalManager.archiveEnqueueErrors.Inc() }
func RecordArchiveDequeue()      { globalManager.archiveDequeues.Inc() }
func RecordArchiveWrite()        { globalManager.archiveWrites.Inc() }
func RecordArchiveError()        { globalManager.archiveErrors.Inc() }
func RecordArchiveWriteLatency(ms float64) {
	globalManager.archiveWriteLatency.Observe(ms)
}
func UpdateArchivedMatches(n int) { globalManager.archivedMatches.Set(float64(n)) }
func UpdateArchiverWorkers(n int) { globalManager.archiverWorkers.Set(float64(n)) }

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}
