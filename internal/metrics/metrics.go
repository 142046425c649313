package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	// Transport cache metrics
	transportCacheTotal *prometheus.CounterVec

	// Registration guard
	metricsOnce       sync.Once
	metricsRegistered bool
)

// InitMetrics initializes all Prometheus metrics.
// This should be called once at startup if Prometheus metrics are enabled.
func InitMetrics() {
	metricsOnce.Do(func() {
		requestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ccp_requests_total",
				Help: "Total number of credential provider requests by outcome",
			},
			[]string{"outcome"},
		)

		requestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ccp_request_duration_seconds",
				Help:    "Duration of credential provider requests in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"outcome"},
		)

		transportCacheTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ccp_transport_cache_total",
				Help: "Transport cache lookups by result (hit or miss)",
			},
			[]string{"result"},
		)

		metricsRegistered = true
	})
}

// RecordRequest records a completed request with its outcome and duration.
func RecordRequest(outcome string, durationSeconds float64) {
	if !metricsRegistered {
		return
	}

	if requestsTotal != nil {
		requestsTotal.WithLabelValues(outcome).Inc()
	}

	if requestDuration != nil {
		requestDuration.WithLabelValues(outcome).Observe(durationSeconds)
	}
}

// RecordTransportCache records a transport cache lookup result.
func RecordTransportCache(result string) {
	if !metricsRegistered || transportCacheTotal == nil {
		return
	}
	transportCacheTotal.WithLabelValues(result).Inc()
}

// GetRequestsTotal returns the request counter for testing.
func GetRequestsTotal() *prometheus.CounterVec {
	return requestsTotal
}

// GetRequestDuration returns the request duration histogram for testing.
func GetRequestDuration() *prometheus.HistogramVec {
	return requestDuration
}

// GetTransportCacheTotal returns the transport cache counter for testing.
func GetTransportCacheTotal() *prometheus.CounterVec {
	return transportCacheTotal
}

// IsRegistered returns whether metrics have been initialized.
func IsRegistered() bool {
	return metricsRegistered
}
