// Package metrics provides Prometheus metrics export for the analysis
// engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter exports engine metrics in Prometheus format.
type Exporter struct {
	registry *prometheus.Registry

	// Stream ingestion metrics
	framesProcessed *prometheus.CounterVec
	typingBatches   prometheus.Counter
	biosignals      prometheus.Counter
	eventsRejected  *prometheus.CounterVec

	// Analysis metrics
	analysisLatency *prometheus.HistogramVec
	fatigueScore    *prometheus.GaugeVec
	energyLevel     prometheus.Gauge
	alertsFired     *prometheus.CounterVec

	// Session metrics
	sessionsActive prometheus.Gauge
}

// Config configures the exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default exporter configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	}
}

// NewExporter creates a metrics exporter with a private registry unless
// one is supplied.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{registry: registry}

	e.framesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neuroalign",
			Subsystem: "engine",
			Name:      "frames_processed_total",
			Help:      "Total webcam frames processed",
		},
		[]string{"face_detected"},
	)

	e.typingBatches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "neuroalign",
			Subsystem: "engine",
			Name:      "typing_batches_total",
			Help:      "Total typing batches processed",
		},
	)

	e.biosignals = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "neuroalign",
			Subsystem: "engine",
			Name:      "biosignals_total",
			Help:      "Total biosignal samples ingested",
		},
	)

	e.eventsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neuroalign",
			Subsystem: "engine",
			Name:      "events_rejected_total",
			Help:      "Events rejected before analysis",
		},
		[]string{"reason"},
	)

	e.analysisLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neuroalign",
			Subsystem: "engine",
			Name:      "analysis_latency_seconds",
			Help:      "Analysis operation latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"operation"},
	)

	e.fatigueScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "neuroalign",
			Subsystem: "engine",
			Name:      "fatigue_score",
			Help:      "Latest fatigue score per component (0-1)",
		},
		[]string{"component"},
	)

	e.energyLevel = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "neuroalign",
			Subsystem: "engine",
			Name:      "energy_level",
			Help:      "Latest predicted energy level (0-1)",
		},
	)

	e.alertsFired = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neuroalign",
			Subsystem: "engine",
			Name:      "alerts_fired_total",
			Help:      "Total fatigue alerts fired",
		},
		[]string{"severity"},
	)

	e.sessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "neuroalign",
			Subsystem: "engine",
			Name:      "sessions_active",
			Help:      "Number of active monitoring sessions",
		},
	)

	registry.MustRegister(
		e.framesProcessed,
		e.typingBatches,
		e.biosignals,
		e.eventsRejected,
		e.analysisLatency,
		e.fatigueScore,
		e.energyLevel,
		e.alertsFired,
		e.sessionsActive,
	)

	return e
}

// RecordFrame records one processed webcam frame.
func (e *Exporter) RecordFrame(faceDetected bool, latency time.Duration) {
	detected := "true"
	if !faceDetected {
		detected = "false"
	}
	e.framesProcessed.WithLabelValues(detected).Inc()
	e.analysisLatency.WithLabelValues("frame").Observe(latency.Seconds())
}

// RecordTypingBatch records one processed typing batch.
func (e *Exporter) RecordTypingBatch(latency time.Duration) {
	e.typingBatches.Inc()
	e.analysisLatency.WithLabelValues("typing").Observe(latency.Seconds())
}

// RecordBiosignal records one ingested biosignal sample.
func (e *Exporter) RecordBiosignal(latency time.Duration) {
	e.biosignals.Inc()
	e.analysisLatency.WithLabelValues("biosignal").Observe(latency.Seconds())
}

// RecordRejection records an event refused before analysis.
func (e *Exporter) RecordRejection(reason string) {
	e.eventsRejected.WithLabelValues(reason).Inc()
}

// SetFatigueScore sets the latest score for a fatigue component.
func (e *Exporter) SetFatigueScore(component string, score float64) {
	e.fatigueScore.WithLabelValues(component).Set(score)
}

// SetEnergyLevel sets the latest predicted energy level.
func (e *Exporter) SetEnergyLevel(level float64) {
	e.energyLevel.Set(level)
}

// RecordAlert records one fired alert.
func (e *Exporter) RecordAlert(severity string) {
	e.alertsFired.WithLabelValues(severity).Inc()
}

// SetActiveSessions sets the active session gauge.
func (e *Exporter) SetActiveSessions(count int) {
	e.sessionsActive.Set(float64(count))
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}
