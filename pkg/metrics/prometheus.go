// Package metrics provides Prometheus metrics for the basecaller.
//
// The tool is a batch CLI, so nothing is scraped: the registry is dumped to a
// node_exporter textfile at the end of a run when a path is configured.
package metrics

import (
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the basecaller metrics.
type Manager struct {
	namespace       string
	subsystem       string
	percentBuckets  []float64
	latencyBuckets  []float64
	contrastBuckets []float64
	constLabels     prometheus.Labels
	registry        prometheus.Registerer

	// Batch metrics
	filesProcessed *prometheus.CounterVec
	fileLatency    prometheus.Histogram

	// Cycle metrics
	cyclesProcessed   prometheus.Counter
	spotsProcessed    prometheus.Counter
	noSignalSpots     prometheus.Counter
	cycleErrorPercent prometheus.Histogram
	cycleContrast     prometheus.Histogram
	undefinedContrast prometheus.Counter
	mappingLatency    prometheus.Histogram
	lastErrorPercent  *prometheus.GaugeVec

	// Queue and worker metrics
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge
	queueRejected  *prometheus.CounterVec
	workerActive   prometheus.Gauge
	duplicateFiles prometheus.Counter

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "basecall",
		subsystem:       "",
		percentBuckets:  []float64{0, 1, 2, 5, 10, 20, 30, 50, 75, 100},
		latencyBuckets:  prometheus.DefBuckets,
		contrastBuckets: prometheus.ExponentialBuckets(1, 2, 16),
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.filesProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "files_total",
		Help: "Input files processed, by outcome",
	}, []string{"outcome"})
	m.fileLatency = m.histogram("file_duration_seconds", "Wall time to process one input file", m.latencyBuckets)

	m.cyclesProcessed = m.counter("cycles_total", "Cycles basecalled")
	m.spotsProcessed = m.counter("spots_total", "Spots basecalled across all cycles")
	m.noSignalSpots = m.counter("no_signal_spots_total", "Spots where all four dye intensities were zero")
	m.cycleErrorPercent = m.histogram("cycle_error_percent", "Per-cycle basecall error against the reference, in percent", m.percentBuckets)
	m.cycleContrast = m.histogram("cycle_contrast", "Per-cycle mean RMS dye contrast", m.contrastBuckets)
	m.undefinedContrast = m.counter("undefined_contrast_cycles_total", "Cycles in which no spot carried signal")
	m.mappingLatency = m.histogram("mapping_search_duration_seconds", "Time spent computing one cycle", m.latencyBuckets)
	m.lastErrorPercent = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "last_cycle_error_percent",
		Help: "Error percentage of the most recent cycle with the given name",
	}, []string{"cycle"})

	m.queueSize = m.gauge("queue_size", "Jobs waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum jobs the queue accepts")
	m.queueRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "queue_rejected_total",
		Help: "Jobs refused by the queue, by reason",
	}, []string{"reason"})
	m.workerActive = m.gauge("workers_active", "Workers currently running")
	m.duplicateFiles = m.counter("duplicate_files_total", "Input paths given more than once")

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "errors_total",
		Help: "Errors by component and kind",
	}, []string{"component", "kind"})
}

// RecordFile counts a finished file and its wall time.
func RecordFile(failed bool, seconds float64) {
	outcome := "ok"
	if failed {
		outcome = "failed"
	}
	globalManager.filesProcessed.WithLabelValues(outcome).Inc()
	globalManager.fileLatency.Observe(seconds)
}

// RecordCycle records the outcome of one basecalled cycle. Pass NaN contrast
// for a cycle without signal.
func RecordCycle(name string, spots, noSignal int, errorPercent, contrast float64, seconds float64) {
	m := globalManager
	m.cyclesProcessed.Inc()
	m.spotsProcessed.Add(float64(spots))
	m.noSignalSpots.Add(float64(noSignal))
	m.cycleErrorPercent.Observe(errorPercent)
	m.lastErrorPercent.WithLabelValues(name).Set(errorPercent)
	m.mappingLatency.Observe(seconds)
	if math.IsNaN(contrast) {
		m.undefinedContrast.Inc()
		return
	}
	m.cycleContrast.Observe(contrast)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueRejected counts a job the queue refused.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// AddActiveWorkers adjusts the running worker gauge by delta.
func AddActiveWorkers(delta int) {
	globalManager.workerActive.Add(float64(delta))
}

// RecordDuplicateFile counts a repeated input path.
func RecordDuplicateFile() {
	globalManager.duplicateFiles.Inc()
}

// RecordError records an error with component and kind labels.
func RecordError(component, kind string) {
	globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes every metric in the registry to path in the text
// exposition format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
