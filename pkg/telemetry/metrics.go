package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the calibration daemon.
type Metrics struct {
	// Run metrics
	runsStarted   *prometheus.CounterVec
	runsCompleted *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	activeRuns    prometheus.Gauge

	// Trial metrics
	trialsExecuted *prometheus.CounterVec
	bestScore      *prometheus.GaugeVec
	learningRate   *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector backed by its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		runsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "calibration",
				Name:      "runs_started_total",
				Help:      "Total number of calibration runs started",
			},
			[]string{"strategy"},
		),
		runsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "calibration",
				Name:      "runs_completed_total",
				Help:      "Total number of calibration runs completed",
			},
			[]string{"strategy", "status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "calibration",
				Name:      "run_duration_seconds",
				Help:      "Duration of calibration runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		activeRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "calibration",
				Name:      "active_runs",
				Help:      "Current number of running calibrations",
			},
		),

		trialsExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "calibration",
				Name:      "trials_executed_total",
				Help:      "Total number of trials executed",
			},
			[]string{"strategy", "result"},
		),
		bestScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "calibration",
				Name:      "best_score",
				Help:      "Best score observed so far per run",
			},
			[]string{"run_id"},
		),
		learningRate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "calibration",
				Name:      "learning_rate",
				Help:      "Current learning rate per run",
			},
			[]string{"run_id"},
		),
	}

	registry.MustRegister(
		m.runsStarted,
		m.runsCompleted,
		m.runDuration,
		m.activeRuns,
		m.trialsExecuted,
		m.bestScore,
		m.learningRate,
	)

	return m
}

// RecordRunStarted increments the started-runs counter.
func (m *Metrics) RecordRunStarted(strategy string) {
	if m.runsStarted == nil {
		return
	}
	m.runsStarted.WithLabelValues(strategy).Inc()
	m.activeRuns.Inc()
}

// RecordRunCompleted records a finished run with its status and duration.
func (m *Metrics) RecordRunCompleted(strategy, status string, duration time.Duration) {
	if m.runsCompleted == nil {
		return
	}
	m.runsCompleted.WithLabelValues(strategy, status).Inc()
	m.runDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	m.activeRuns.Dec()
}

// RecordTrial records a single executed trial.
func (m *Metrics) RecordTrial(strategy string, success bool) {
	if m.trialsExecuted == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.trialsExecuted.WithLabelValues(strategy, result).Inc()
}

// SetBestScore updates the best-score gauge for a run.
func (m *Metrics) SetBestScore(runID string, score float64) {
	if m.bestScore == nil {
		return
	}
	m.bestScore.WithLabelValues(runID).Set(score)
}

// SetLearningRate updates the learning-rate gauge for a run.
func (m *Metrics) SetLearningRate(runID string, rate float64) {
	if m.learningRate == nil {
		return
	}
	m.learningRate.WithLabelValues(runID).Set(rate)
}

// RemoveRun drops the per-run gauges after a run is deleted.
func (m *Metrics) RemoveRun(runID string) {
	if m.bestScore == nil {
		return
	}
	m.bestScore.DeleteLabelValues(runID)
	m.learningRate.DeleteLabelValues(runID)
}

// Handler returns an HTTP handler that serves the metrics registry.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
