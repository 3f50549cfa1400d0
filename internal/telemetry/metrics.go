// Package telemetry exposes Prometheus metrics for screening conversations.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spigell/hh-screener/internal/screening"
)

const namespace = "hh_screener"

// Metrics groups the collectors recorded by the conversation service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SessionsStarted   prometheus.Counter
	Turns             *prometheus.CounterVec
	TurnDuration      prometheus.Histogram
	Evaluations       *prometheus.CounterVec
	EvaluationScore   prometheus.Histogram
	PhrasingFallbacks prometheus.Counter
	HumanHandoffs     prometheus.Counter
}

// New registers the collectors on a fresh registry, along with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Screening conversations started.",
		}),
		Turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Conversation turns by resulting directive.",
		}, []string{"directive"}),
		TurnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Time to process one inbound message, including rendering and persistence.",
			Buckets:   prometheus.DefBuckets,
		}),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Completed evaluations by suitability.",
		}, []string{"suitability"}),
		EvaluationScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_score",
			Help:      "Overall evaluation scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		PhrasingFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phrasing_fallbacks_total",
			Help:      "Replies rendered by the fallback phraser after the primary failed.",
		}),
		HumanHandoffs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "human_handoffs_total",
			Help:      "Turns that failed and flagged the session for a human recruiter.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SessionsStarted,
		m.Turns,
		m.TurnDuration,
		m.Evaluations,
		m.EvaluationScore,
		m.PhrasingFallbacks,
		m.HumanHandoffs,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.SessionsStarted.Inc()
}

// ObserveTurn records one processed turn.
func (m *Metrics) ObserveTurn(d screening.Directive, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(string(d.Kind)).Inc()
	m.TurnDuration.Observe(elapsed.Seconds())
	if d.Kind == screening.DirectiveApology {
		m.HumanHandoffs.Inc()
	}
	if d.Kind == screening.DirectiveClose && d.Evaluation != nil {
		m.Evaluations.WithLabelValues(string(d.Evaluation.Suitability)).Inc()
		m.EvaluationScore.Observe(d.Evaluation.OverallScore)
	}
}

func (m *Metrics) PhrasingFellBack() {
	if m == nil {
		return
	}
	m.PhrasingFallbacks.Inc()
}
