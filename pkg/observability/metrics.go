package observability

import (
	"context"

	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "stagepath"

// Metrics holds the engine collectors.
type Metrics struct {
	Compilations  *prometheus.CounterVec
	CompileErrors *prometheus.CounterVec
	Stages        prometheus.Histogram
	Checks        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Compilations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compilations_total",
				Help:      "Total number of path compilations by result.",
			},
			[]string{"result"},
		),
		CompileErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compile_errors_total",
				Help:      "Failed compilations by error kind.",
			},
			[]string{"kind"},
		),
		Stages: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "path_stages",
				Help:      "Number of stages of compiled paths.",
				Buckets:   []float64{2, 4, 8, 16, 32, 64},
			},
		),
		Checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checks_total",
				Help:      "Navigation checks by outcome and reason.",
			},
			[]string{"outcome", "reason"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Compilations, m.CompileErrors, m.Stages, m.Checks)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCompile: func(_ context.Context, e *domain.CompileEvent) {
			if e.Err != nil {
				m.Compilations.WithLabelValues("error").Inc()
				m.CompileErrors.WithLabelValues(domain.ErrorKind(e.Err)).Inc()
				return
			}
			m.Compilations.WithLabelValues("ok").Inc()
			m.Stages.Observe(float64(e.Stages))
		},
		OnCheck: func(_ context.Context, e *domain.CheckEvent) {
			outcome := "allowed"
			if e.Decision.Blocked {
				outcome = "blocked"
			}
			m.Checks.WithLabelValues(outcome, e.Decision.Reason).Inc()
		},
	}
}
