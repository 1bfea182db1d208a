package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"wall-elevation/internal/elevation/interaction"
)

// ============================================================
// Elevation Metrics
// ============================================================

const (
	FormatPNG = "png"
	FormatSVG = "svg"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ElevationMetrics собирает метрики рендера, перетаскивания и сессий.
// Реализует interaction.Observer.
type ElevationMetrics struct {
	registry *prometheus.Registry

	rendersTotal          *prometheus.CounterVec
	renderDurationSeconds *prometheus.HistogramVec
	renderCacheHitsTotal  *prometheus.CounterVec
	dragSavesTotal        *prometheus.CounterVec
	reconciliationsTotal  *prometheus.CounterVec
	sessionsActive        prometheus.Gauge
}

// NewElevationMetrics создает метрики и регистрирует их в registry.
func NewElevationMetrics(registry *prometheus.Registry) (*ElevationMetrics, error) {
	m := &ElevationMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ElevationMetrics) initMetrics() {
	m.rendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elevation_renders_total",
			Help: "Total number of rendered elevations",
		},
		[]string{"format"}, // png, svg
	)

	m.renderDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "elevation_render_duration_seconds",
			Help:    "Time taken to render an elevation",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms to ~0.5s
		},
		[]string{"format"},
	)

	m.renderCacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elevation_render_cache_hits_total",
			Help: "Total number of renders served from cache",
		},
		[]string{"format"},
	)

	m.dragSavesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elevation_drag_saves_total",
			Help: "Total number of fixture position saves issued by drags",
		},
		[]string{"outcome"}, // success, failure
	)

	m.reconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elevation_reconciliations_total",
			Help: "Total number of reconciliations with server state",
		},
		[]string{"outcome"}, // adopted, override, fallback, deferred, reverted
	)

	m.sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "elevation_sessions_active",
		Help: "Current number of interaction sessions",
	})
}

// Describe implements prometheus.Collector
func (m *ElevationMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.rendersTotal.Describe(ch)
	m.renderDurationSeconds.Describe(ch)
	m.renderCacheHitsTotal.Describe(ch)
	m.dragSavesTotal.Describe(ch)
	m.reconciliationsTotal.Describe(ch)
	m.sessionsActive.Describe(ch)
}

// Collect implements prometheus.Collector
func (m *ElevationMetrics) Collect(ch chan<- prometheus.Metric) {
	m.rendersTotal.Collect(ch)
	m.renderDurationSeconds.Collect(ch)
	m.renderCacheHitsTotal.Collect(ch)
	m.dragSavesTotal.Collect(ch)
	m.reconciliationsTotal.Collect(ch)
	m.sessionsActive.Collect(ch)
}

func (m *ElevationMetrics) RecordRender(format string, duration time.Duration) {
	m.rendersTotal.WithLabelValues(format).Inc()
	m.renderDurationSeconds.WithLabelValues(format).Observe(duration.Seconds())
}

func (m *ElevationMetrics) RecordRenderCacheHit(format string) {
	m.renderCacheHitsTotal.WithLabelValues(format).Inc()
}

func (m *ElevationMetrics) SessionOpened() {
	m.sessionsActive.Inc()
}

func (m *ElevationMetrics) SessionClosed() {
	m.sessionsActive.Dec()
}

// SaveCompleted implements interaction.Observer
func (m *ElevationMetrics) SaveCompleted(success bool) {
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	m.dragSavesTotal.WithLabelValues(outcome).Inc()
}

// Reconciled implements interaction.Observer
func (m *ElevationMetrics) Reconciled(outcome interaction.Outcome) {
	m.reconciliationsTotal.WithLabelValues(string(outcome)).Inc()
}
