package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/espalier/pkg/domain"
)

// Metrics holds the Prometheus collectors for wizard activity.
type Metrics struct {
	stepsEntered *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	completed    prometheus.Counter
	cancelled    prometheus.Counter
	duration     prometheus.Histogram
}

// NewMetrics creates and registers the collectors. Registering the same
// metrics twice on one registry panics, as usual with Prometheus.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stepsEntered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_steps_entered_total",
				Help: "Total number of prompts issued, by step index",
			},
			[]string{"step"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_answers_rejected_total",
				Help: "Total number of rejected answers, by step index",
			},
			[]string{"step"},
		),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "espalier_runs_completed_total",
			Help: "Total number of completed setup runs",
		}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "espalier_runs_cancelled_total",
			Help: "Total number of cancelled setup runs",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "espalier_run_duration_seconds",
			Help: "Wall time from run start to completion",
			// Runs are human-paced: seconds to an hour.
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		}),
	}
	reg.MustRegister(m.stepsEntered, m.rejections, m.completed, m.cancelled, m.duration)
	return m
}

// Hooks returns the lifecycle callbacks feeding these collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			m.stepsEntered.WithLabelValues(strconv.Itoa(e.Step)).Inc()
		},
		OnAnswerRejected: func(ctx context.Context, e *domain.StepEvent) {
			m.rejections.WithLabelValues(strconv.Itoa(e.Step)).Inc()
		},
		OnRunCompleted: func(ctx context.Context, e *domain.RunEvent) {
			m.completed.Inc()
			m.duration.Observe(e.Duration.Seconds())
		},
		OnRunCancelled: func(ctx context.Context, e *domain.RunEvent) {
			m.cancelled.Inc()
		},
	}
}
