// Package fallback provides the mock-data substitution policy for designated
// read-only endpoints: try the remote call through a circuit breaker, and on
// failure serve a fallback payload so dashboards stay populated during
// backend outages. Write operations must never pass through this package.
package fallback

import (
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"

	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

// NewBreaker creates a circuit breaker for one read-only resource.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
}

// Reader decorates a single read endpoint with the fallback policy.
type Reader[T any] struct {
	resource string
	cb       *gobreaker.CircuitBreaker
	logger   *logger.Logger
	metrics  *metrics.Metrics
	provide  func() T
	forced   atomic.Bool
}

// NewReader creates a fallback reader. provide returns the payload served
// when the remote read fails or the breaker is open.
func NewReader[T any](resource string, log *logger.Logger, m *metrics.Metrics, provide func() T) *Reader[T] {
	return &Reader[T]{
		resource: resource,
		cb:       NewBreaker(resource),
		logger:   log.WithComponent("fallback"),
		metrics:  m,
		provide:  provide,
	}
}

// Force makes Fetch serve the fallback payload unconditionally, skipping
// the remote call. Used when the console runs in mock mode.
func (r *Reader[T]) Force(on bool) {
	r.forced.Store(on)
}

// Fetch runs the remote read and substitutes the fallback payload on any
// failure. It never returns an error; the substitution is one-directional
// and applies to reads only.
func (r *Reader[T]) Fetch(remote func() (T, error)) T {
	if r.forced.Load() {
		return r.provide()
	}
	result, err := r.cb.Execute(func() (interface{}, error) {
		return remote()
	})
	if err != nil {
		r.metrics.FallbacksServed.WithLabelValues(r.resource).Inc()
		r.logger.Warn("serving fallback data", "resource", r.resource, "error", err.Error())
		return r.provide()
	}
	return result.(T)
}
