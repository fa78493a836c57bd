package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	evaluations *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	confidence  *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundpulse_evaluations_total",
				Help: "Total number of strategy evaluations",
			},
			[]string{"strategy", "signal"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundpulse_evaluation_errors_total",
				Help: "Total number of evaluation errors by kind",
			},
			[]string{"strategy", "kind"},
		),
		confidence: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fundpulse_signal_confidence",
				Help: "Confidence of the most recent signal per fund and strategy",
			},
			[]string{"fund", "strategy"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordEvaluation records a completed strategy evaluation.
func (r *Recorder) RecordEvaluation(strategy, signal string) {
	r.evaluations.WithLabelValues(strategy, signal).Inc()
}

// RecordEvaluationError records a failed evaluation.
func (r *Recorder) RecordEvaluationError(strategy, kind string) {
	r.errorsTotal.WithLabelValues(strategy, kind).Inc()
}

// RecordConfidence records the confidence of the latest signal.
func (r *Recorder) RecordConfidence(fund, strategy string, confidence float64) {
	r.confidence.WithLabelValues(fund, strategy).Set(confidence)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
