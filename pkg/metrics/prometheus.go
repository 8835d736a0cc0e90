// Package metrics provides Prometheus metrics for the contract pipeline jobs.
package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Job Metrics
	jobRuns         *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
	jobLastSuccess  *prometheus.GaugeVec
	rowsRead        *prometheus.CounterVec
	rowsWritten     *prometheus.CounterVec
	contractsFailed *prometheus.CounterVec

	// Feature and Index Metrics
	vectorsBuilt       prometheus.Counter
	indexSize          prometheus.Gauge
	indexBuildDuration prometheus.Histogram
	neighborLatency    prometheus.Histogram
	successionOutcomes *prometheus.CounterVec

	// Query Pool Metrics
	queueDepth  prometheus.Gauge
	workerTasks *prometheus.CounterVec

	// Storage Metrics
	storageLatency *prometheus.HistogramVec
	storageErrors  *prometheus.CounterVec

	// Error Metrics
	errorsByComponent *prometheus.CounterVec

	// System Metrics
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
		namespace:        "contracts",
		subsystem:        "pipeline",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		constLabels:      prometheus.Labels{},
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

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	// Job Metrics - one observation per batch run
	m.jobRuns = auto.NewCounterVec(
		m.counterOpts("job_runs_total", "Total number of job runs by job and status"),
		[]string{"job", "status"},
	)
	m.jobDuration = auto.NewHistogramVec(
		m.histogramOpts("job_duration_milliseconds", "Job wall time in milliseconds"),
		[]string{"job"},
	)
	m.jobLastSuccess = auto.NewGaugeVec(
		m.gaugeOpts("job_last_success_unix", "Unix timestamp of the last successful run"),
		[]string{"job"},
	)
	m.rowsRead = auto.NewCounterVec(
		m.counterOpts("rows_read_total", "Rows read from input tables"),
		[]string{"table"},
	)
	m.rowsWritten = auto.NewCounterVec(
		m.counterOpts("rows_written_total", "Rows written to output tables"),
		[]string{"table"},
	)
	m.contractsFailed = auto.NewCounterVec(
		m.counterOpts("contracts_failed_total", "Contracts skipped by a job, by error kind"),
		[]string{"job", "kind"},
	)

	// Feature and Index Metrics
	m.vectorsBuilt = auto.NewCounter(m.counterOpts("vectors_built_total", "Feature vectors built by aggregation"))
	m.indexSize = auto.NewGauge(m.gaugeOpts("index_size", "Number of contracts in the similarity index"))
	m.indexBuildDuration = auto.NewHistogram(
		m.histogramOpts("index_build_duration_milliseconds", "Similarity index build time in milliseconds"))
	m.neighborLatency = auto.NewHistogram(
		m.histogramOpts("neighbor_query_latency_milliseconds", "Neighbour query latency in milliseconds"))
	m.successionOutcomes = auto.NewCounterVec(
		m.counterOpts("succession_outcomes_total", "Succession resolutions by outcome"),
		[]string{"outcome"},
	)

	// Query Pool Metrics
	m.queueDepth = auto.NewGauge(m.gaugeOpts("query_queue_depth", "Neighbour queries waiting for a worker"))
	m.workerTasks = auto.NewCounterVec(
		m.counterOpts("worker_tasks_total", "Neighbour queries handled by workers, by status"),
		[]string{"status"},
	)

	// Storage Metrics
	m.storageLatency = auto.NewHistogramVec(
		m.histogramOpts("storage_operation_latency_milliseconds", "Object storage operation latency in milliseconds"),
		[]string{"backend", "op"},
	)
	m.storageErrors = auto.NewCounterVec(
		m.counterOpts("storage_errors_total", "Object storage operation errors"),
		[]string{"backend", "op"},
	)

	// Error Metrics
	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component and kind"),
		[]string{"component", "kind"},
	)

	// System Metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use at the end of a run"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines at the end of a run"))
}

// RecordJobRun counts a finished run with status "ok" or "error".
func RecordJobRun(job, status string) {
	globalManager.jobRuns.WithLabelValues(job, status).Inc()
}

// RecordJobDuration records the wall time of a run.
func RecordJobDuration(job string, d time.Duration) {
	globalManager.jobDuration.WithLabelValues(job).Observe(ms(d))
}

// MarkJobSuccess stamps the last successful run of job.
func MarkJobSuccess(job string, at time.Time) {
	globalManager.jobLastSuccess.WithLabelValues(job).Set(float64(at.Unix()))
}

// RecordRowsRead adds n rows read from table.
func RecordRowsRead(table string, n int) {
	globalManager.rowsRead.WithLabelValues(table).Add(float64(n))
}

// RecordRowsWritten adds n rows written to table.
func RecordRowsWritten(table string, n int) {
	globalManager.rowsWritten.WithLabelValues(table).Add(float64(n))
}

// RecordContractFailure counts a contract skipped by job.
func RecordContractFailure(job, kind string) {
	globalManager.contractsFailed.WithLabelValues(job, kind).Inc()
}

// RecordVectorsBuilt adds n aggregated vectors.
func RecordVectorsBuilt(n int) {
	globalManager.vectorsBuilt.Add(float64(n))
}

// RecordIndexBuild records the index size and build time.
func RecordIndexBuild(size int, d time.Duration) {
	globalManager.indexSize.Set(float64(size))
	globalManager.indexBuildDuration.Observe(ms(d))
}

// RecordNeighborLatency records one neighbour query.
func RecordNeighborLatency(d time.Duration) {
	globalManager.neighborLatency.Observe(ms(d))
}

// RecordSuccessionOutcome counts a resolution by outcome.
func RecordSuccessionOutcome(outcome string) {
	globalManager.successionOutcomes.WithLabelValues(outcome).Inc()
}

// UpdateQueueDepth sets the number of queued neighbour queries.
func UpdateQueueDepth(n int) {
	globalManager.queueDepth.Set(float64(n))
}

// RecordWorkerTask counts a handled query with status "ok" or "error".
func RecordWorkerTask(status string) {
	globalManager.workerTasks.WithLabelValues(status).Inc()
}

// RecordStorageOperation records an object storage call.
func RecordStorageOperation(backend, op string, d time.Duration, err error) {
	globalManager.storageLatency.WithLabelValues(backend, op).Observe(ms(d))
	if err != nil {
		globalManager.storageErrors.WithLabelValues(backend, op).Inc()
	}
}

// RecordErrorByComponent records an error with component and kind labels.
func RecordErrorByComponent(component, kind string) {
	globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
}

// SnapshotRuntime sets the system gauges from the Go runtime.
func SnapshotRuntime() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	globalManager.systemMemoryUsage.Set(float64(mem.HeapInuse))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
