package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
// It owns its registry so several recorders can coexist in one process.
type Recorder struct {
	registry      *prometheus.Registry
	charts        *prometheus.CounterVec
	degraded      *prometheus.CounterVec
	chartLatency  *prometheus.HistogramVec
	solverIters   prometheus.Histogram
	solverEvals   prometheus.Histogram
	ephemerisCall *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		charts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astrolabe_charts_total",
				Help: "Total number of charts computed, by outcome",
			},
			[]string{"status"},
		),
		degraded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astrolabe_degraded_total",
				Help: "Fallback paths taken while computing charts",
			},
			[]string{"kind"},
		),
		chartLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "astrolabe_chart_duration_seconds",
				Help:    "Duration of chart computations in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"status"},
		),
		solverIters: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "astrolabe_solver_iterations",
				Help:    "Bisection iterations per design solve",
				Buckets: prometheus.LinearBuckets(0, 5, 13),
			},
		),
		solverEvals: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "astrolabe_solver_evaluations",
				Help:    "Longitude evaluations per design solve",
				Buckets: prometheus.LinearBuckets(0, 5, 17),
			},
		),
		ephemerisCall: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astrolabe_ephemeris_calls_total",
				Help: "Ephemeris provider calls, by operation and result",
			},
			[]string{"op", "result"},
		),
	}
}

// Registry exposes the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordChart records one chart computation.
func (r *Recorder) RecordChart(status string, took time.Duration) {
	r.charts.WithLabelValues(status).Inc()
	r.chartLatency.WithLabelValues(status).Observe(took.Seconds())
}

// RecordDegraded records a fallback path.
func (r *Recorder) RecordDegraded(kind string) {
	r.degraded.WithLabelValues(kind).Inc()
}

// RecordSolver records the cost of one design solve.
func (r *Recorder) RecordSolver(iterations, evaluations int) {
	r.solverIters.Observe(float64(iterations))
	r.solverEvals.Observe(float64(evaluations))
}

// RecordEphemerisCall records a provider call.
func (r *Recorder) RecordEphemerisCall(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.ephemerisCall.WithLabelValues(op, result).Inc()
}

// WriteTextfile writes all metrics in the text exposition format, for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return errors.New("metrics textfile path is empty")
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
