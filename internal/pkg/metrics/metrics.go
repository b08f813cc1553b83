// Package metrics registers the engine's Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// EvaluationsTotal counts finished evaluations by decision.
	EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopfds",
		Subsystem: "risk",
		Name:      "evaluations_total",
		Help:      "Completed risk evaluations by decision.",
	}, []string{"decision"})

	// EvaluationSeconds tracks end-to-end evaluation latency. Buckets are
	// tuned around the 100ms budget.
	EvaluationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shopfds",
		Subsystem: "risk",
		Name:      "evaluation_duration_seconds",
		Help:      "End-to-end risk evaluation latency.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 1},
	})

	// DegradedEvaluations counts evaluations that lost at least one
	// advisory signal.
	DegradedEvaluations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "shopfds",
		Subsystem: "risk",
		Name:      "degraded_evaluations_total",
		Help:      "Evaluations completed with one or more advisory signals unavailable.",
	})

	// OtpEvents counts step-up session lifecycle events.
	OtpEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopfds",
		Subsystem: "stepup",
		Name:      "otp_events_total",
		Help:      "Step-up OTP session events (issued, verified, exhausted, expired, resent).",
	}, []string{"event"})
)

func init() {
	prometheus.MustRegister(EvaluationsTotal, EvaluationSeconds, DegradedEvaluations, OtpEvents)
}
