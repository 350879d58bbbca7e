package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	requests    *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	signals     *prometheus.CounterVec
	stage       *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder registered on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytm4a_requests_total",
				Help: "Processing requests by final status",
			},
			[]string{"status"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytm4a_errors_total",
				Help: "Pipeline errors by kind",
			},
			[]string{"kind"},
		),
		signals: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytm4a_signals_total",
				Help: "Trading signals emitted by category and direction",
			},
			[]string{"category", "direction"},
		),
		stage: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ytm4a_stage_duration_seconds",
				Help:    "Time spent in each processing state",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1200},
			},
			[]string{"state"},
		),
	}
}

// RecordStage records how long the pipeline spent in state.
func (r *Recorder) RecordStage(state string, seconds float64) {
	r.stage.WithLabelValues(state).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSignal counts an emitted signal.
func (r *Recorder) RecordSignal(category, direction string) {
	r.signals.WithLabelValues(category, direction).Inc()
}

// RecordRequest counts a finished request.
func (r *Recorder) RecordRequest(status string) {
	r.requests.WithLabelValues(status).Inc()
}
