package orchestrator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	componentAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_component_attempts_total",
			Help: "Component attempts by requested kind and result.",
		},
		[]string{"kind", "result"},
	)

	stageDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkout_stage_duration_seconds",
			Help:    "Duration of each bootstrap stage.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	componentActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_component_actions_total",
			Help: "Submit, tokenize and amount update requests by result.",
		},
		[]string{"action", "result"},
	)

	paymentOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_payment_outcomes_total",
			Help: "Outcomes reported by SDK callbacks.",
		},
		[]string{"outcome"},
	)
)

func observeStage(stage Stage, start time.Time) {
	stageDurationSeconds.WithLabelValues(string(stage)).Observe(time.Since(start).Seconds())
}

// GetComponentAttemptsTotal returns the component attempts counter.
func GetComponentAttemptsTotal() *prometheus.CounterVec {
	return componentAttemptsTotal
}

// GetStageDurationSeconds returns the stage latency histogram.
func GetStageDurationSeconds() *prometheus.HistogramVec {
	return stageDurationSeconds
}

// GetComponentActionsTotal returns the component actions counter.
func GetComponentActionsTotal() *prometheus.CounterVec {
	return componentActionsTotal
}

// GetPaymentOutcomesTotal returns the payment outcomes counter.
func GetPaymentOutcomesTotal() *prometheus.CounterVec {
	return paymentOutcomesTotal
}
