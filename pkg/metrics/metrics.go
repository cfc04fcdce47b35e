package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all console metrics
type Metrics struct {
	// Outbound API metrics
	APIRequests       *prometheus.CounterVec
	APILatency        *prometheus.HistogramVec
	APITimeouts       prometheus.Counter
	FallbacksServed   *prometheus.CounterVec
	TokenRefreshes    *prometheus.CounterVec
	PollCycles        prometheus.Counter
	StaleLoadsDropped prometheus.Counter
}

// NewMetrics creates and registers all console metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		APIRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of outbound API requests",
		}, []string{"method", "resource", "status"}),
		APILatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of outbound API requests",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "resource"}),
		APITimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_timeouts_total",
			Help:      "Total number of outbound API requests that timed out",
		}),
		FallbacksServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_served_total",
			Help:      "Total number of reads answered from fallback data",
		}, []string{"resource"}),
		TokenRefreshes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Total number of token refresh attempts",
		}, []string{"result"}),
		PollCycles: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_poll_cycles_total",
			Help:      "Total number of dashboard polling cycles",
		}),
		StaleLoadsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_loads_dropped_total",
			Help:      "Total number of list responses dropped by request fencing",
		}),
	}
}
