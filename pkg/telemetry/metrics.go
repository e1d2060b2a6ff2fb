package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the sync service.
type Metrics struct {
	config MetricsConfig

	syncsStarted    *prometheus.CounterVec
	syncsCompleted  *prometheus.CounterVec
	syncDuration    *prometheus.HistogramVec
	archiveOps      *prometheus.CounterVec
	lastSyncedBlock *prometheus.GaugeVec
	errorsByClass   *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
// When metrics are disabled the returned instance is a no-op.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return &Metrics{config: cfg}
	}

	namespace := cfg.Namespace
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		syncsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "syncs_started_total",
				Help:      "Total number of orderbook syncs started",
			},
			[]string{"orderbook"},
		),
		syncsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "syncs_completed_total",
				Help:      "Total number of orderbook syncs completed",
			},
			[]string{"orderbook", "status"},
		),
		syncDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sync_duration_seconds",
				Help:      "Duration of orderbook syncs",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"status"},
		),
		archiveOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "archive_operations_total",
				Help:      "Total number of archive operations",
			},
			[]string{"operation", "status"},
		),
		lastSyncedBlock: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_synced_block",
				Help:      "Last synced block recorded in the local store before sync",
			},
			[]string{"orderbook"},
		),
		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total errors by classification",
			},
			[]string{"class"},
		),
	}

	registry.MustRegister(
		m.syncsStarted,
		m.syncsCompleted,
		m.syncDuration,
		m.archiveOps,
		m.lastSyncedBlock,
		m.errorsByClass,
	)

	return m
}

// RecordSyncStarted records the start of an orderbook sync.
func (m *Metrics) RecordSyncStarted(orderbook string) {
	if m.registry == nil {
		return
	}
	m.syncsStarted.WithLabelValues(orderbook).Inc()
}

// RecordSyncCompleted records the completion of an orderbook sync.
func (m *Metrics) RecordSyncCompleted(orderbook, status string, duration time.Duration) {
	if m.registry == nil {
		return
	}
	m.syncsCompleted.WithLabelValues(orderbook, status).Inc()
	m.syncDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordArchiveOperation records a prepare/finalize/cleanup outcome.
func (m *Metrics) RecordArchiveOperation(operation, status string) {
	if m.registry == nil {
		return
	}
	m.archiveOps.WithLabelValues(operation, status).Inc()
}

// SetLastSyncedBlock records the resume point found in a local store.
func (m *Metrics) SetLastSyncedBlock(orderbook string, block uint64) {
	if m.registry == nil {
		return
	}
	m.lastSyncedBlock.WithLabelValues(orderbook).Set(float64(block))
}

// RecordError records an error by classification.
func (m *Metrics) RecordError(class string) {
	if m.registry == nil {
		return
	}
	m.errorsByClass.WithLabelValues(class).Inc()
}

// Handler returns an HTTP handler exposing the metrics, or nil when disabled.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server in a background goroutine.
// It is a no-op when metrics are disabled.
func (m *Metrics) StartServer() {
	handler := m.Handler()
	if handler == nil {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	go func() {
		// Best effort; the process does not depend on the metrics endpoint.
		_ = http.ListenAndServe(m.config.ListenAddress, mux)
	}()
}
