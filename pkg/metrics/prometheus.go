// Package metrics provides Prometheus metrics for the matchday service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Match metrics
	matchesSimulated   prometheus.Counter
	matchesDuplicate   prometheus.Counter
	matchEvents        *prometheus.CounterVec
	goals              *prometheus.CounterVec
	simulationLatency  prometheus.Histogram
	matchesStored      prometheus.Gauge
	standingsUpdates   prometheus.Counter
	standingsUndoCount prometheus.Counter

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Timeline metrics
	timelineDaysAdvanced prometheus.Counter
	timelineMomentsFired prometheus.Counter
	timelineMomentErrors prometheus.Counter
	timelineMomentsTotal prometheus.Gauge

	// Event bus and streaming
	busEmits         *prometheus.CounterVec
	busListenerError *prometheus.CounterVec
	streamClients    prometheus.Gauge

	// Repository metrics
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // package-level Record helpers write here

// customRegistry keeps default Go runtime collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared by the exposition handler

func init() { //nolint:gochecknoinits // global manager is ready before main runs
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "matchday",
		subsystem:        "service",
		histogramBuckets: LatencyBuckets,
		registry:         prometheus.DefaultRegisterer,
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

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.matchesSimulated = m.counter("matches_simulated_total", "Total number of matches simulated to full time")
	m.matchesDuplicate = m.counter("matches_duplicate_total", "Total number of match submissions rejected as duplicates")
	m.matchEvents = m.counterVec("match_events_total", "Match events produced, by event type", "type")
	m.goals = m.counterVec("goals_total", "Goals scored, by side", "side")
	m.simulationLatency = m.histogram("simulation_latency_milliseconds", "Time to simulate one match in milliseconds")
	m.matchesStored = m.gauge("matches_stored", "Number of match records in the repository")
	m.standingsUpdates = m.counter("standings_updates_total", "Total number of results applied to the standings")
	m.standingsUndoCount = m.counter("standings_undo_total", "Total number of standings undo operations")

	m.queueSize = m.gauge("queue_size", "Current number of queued match jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (size / capacity)")
	m.queueEnqueueRate = m.counter("queue_enqueue_total", "Total number of jobs enqueued")
	m.queueDequeueRate = m.counter("queue_dequeue_total", "Total number of jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of rejected enqueues")

	m.workerCount = m.gauge("worker_count", "Configured number of simulation workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Number of workers currently simulating")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Time from dequeue to stored result in milliseconds")
	m.workerErrors = m.counter("worker_errors_total", "Total number of jobs that failed in a worker")

	m.timelineDaysAdvanced = m.counter("timeline_days_advanced_total", "Total number of calendar days the timeline advanced")
	m.timelineMomentsFired = m.counter("timeline_moments_fired_total", "Total number of moment callbacks invoked")
	m.timelineMomentErrors = m.counter("timeline_moment_errors_total", "Total number of moment callbacks that failed")
	m.timelineMomentsTotal = m.gauge("timeline_moments", "Number of moments registered on the timeline")

	m.busEmits = m.counterVec("bus_emits_total", "Events emitted on the in-process bus, by topic", "topic")
	m.busListenerError = m.counterVec("bus_listener_errors_total", "Bus listeners that failed, by topic", "topic")
	m.streamClients = m.gauge("stream_clients", "Connected websocket stream clients")

	m.repositoryUpdateLatency = m.histogram("repository_update_latency_milliseconds", "Repository write latency in milliseconds")
	m.repositoryQueryLatency = m.histogram("repository_query_latency_milliseconds", "Repository read latency in milliseconds")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component",
		"component", "error_type")
}

// RecordMatchSimulated counts a finished match and its goals.
func RecordMatchSimulated(homeGoals, awayGoals int) {
	globalManager.matchesSimulated.Inc()
	globalManager.goals.WithLabelValues("home").Add(float64(homeGoals))
	globalManager.goals.WithLabelValues("away").Add(float64(awayGoals))
}

// RecordMatchDuplicate counts a rejected duplicate submission.
func RecordMatchDuplicate() {
	globalManager.matchesDuplicate.Inc()
}

// RecordMatchEvent counts one event of the given type.
func RecordMatchEvent(eventType string) {
	globalManager.matchEvents.WithLabelValues(eventType).Inc()
}

// RecordSimulationLatency records how long a simulation took.
func RecordSimulationLatency(latencyMs float64) {
	globalManager.simulationLatency.Observe(latencyMs)
}

// UpdateMatchesStored sets the stored match count.
func UpdateMatchesStored(count int) {
	globalManager.matchesStored.Set(float64(count))
}

// RecordStandingsUpdate counts a result applied to the table.
func RecordStandingsUpdate() {
	globalManager.standingsUpdates.Inc()
}

// RecordStandingsUndo counts an undo of the table.
func RecordStandingsUndo() {
	globalManager.standingsUndoCount.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordTimelineAdvance counts days the timeline moved.
func RecordTimelineAdvance(days int) {
	globalManager.timelineDaysAdvanced.Add(float64(days))
}

// RecordMomentFired counts a moment callback; failed marks it as errored.
func RecordMomentFired(failed bool) {
	globalManager.timelineMomentsFired.Inc()
	if failed {
		globalManager.timelineMomentErrors.Inc()
	}
}

// UpdateTimelineMoments sets the registered moment count.
func UpdateTimelineMoments(count int) {
	globalManager.timelineMomentsTotal.Set(float64(count))
}

// RecordBusEmit counts an emit on topic.
func RecordBusEmit(topic string) {
	globalManager.busEmits.WithLabelValues(topic).Inc()
}

// RecordBusListenerError counts a failed listener on topic.
func RecordBusListenerError(topic string) {
	globalManager.busListenerError.WithLabelValues(topic).Inc()
}

// UpdateStreamClients sets the connected stream client count.
func UpdateStreamClients(count int) {
	globalManager.streamClients.Set(float64(count))
}

// RecordRepositoryUpdateLatency records repository write latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records repository read latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the registry served by the exposition handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
