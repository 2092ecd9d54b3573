package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/regexrunner/pkg/domain"
)

// Metrics holds the Prometheus collectors updated by engine runs.
type Metrics struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	inFlight    prometheus.Gauge
	traceLength *prometheus.HistogramVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regexrunner_runs_total",
				Help: "Total number of automaton runs by outcome",
			},
			[]string{"challenge_id", "outcome"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "regexrunner_runs_in_flight",
				Help: "Runs currently executing",
			},
		),
		traceLength: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "regexrunner_trace_length",
				Help:    "Number of states visited per run",
				Buckets: prometheus.ExponentialBuckets(1, 2, 8),
			},
			[]string{"challenge_id"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "regexrunner_run_duration_seconds",
				Help:    "Duration of automaton runs",
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
			},
			[]string{"challenge_id"},
		),
	}
	m.registry.MustRegister(m.runs, m.inFlight, m.traceLength, m.duration)
	return m
}

// Registry exposes the underlying registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			m.inFlight.Inc()
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			m.inFlight.Dec()
			if e.Result == nil {
				return
			}
			id := challengeLabel(e.ChallengeID)
			m.runs.WithLabelValues(id, string(e.Result.Outcome)).Inc()
			m.traceLength.WithLabelValues(id).Observe(float64(len(e.Result.Trace)))
			m.duration.WithLabelValues(id).Observe(e.Duration.Seconds())
		},
	}
}

func challengeLabel(id string) string {
	if id == "" {
		return "inline"
	}
	return id
}
