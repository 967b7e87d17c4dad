package session

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_api_requests_total",
			Help: "Total number of requests made to the payments API.",
		},
		[]string{"operation", "outcome"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payments_api_request_duration_seconds",
			Help:    "Latency of payments API requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func observeRequest(operation, outcome string, elapsed time.Duration) {
	apiRequestsTotal.WithLabelValues(operation, outcome).Inc()
	apiRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// GetAPIRequestsTotal exposes the request counter for tests.
func GetAPIRequestsTotal() *prometheus.CounterVec {
	return apiRequestsTotal
}
