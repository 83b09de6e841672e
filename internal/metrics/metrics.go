// file: internal/metrics/metrics.go
// version: 1.0.0
// guid: 2c3d6e9f-5a1b-4c4d-7f8a-0b1c2d3e4f5a

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notekeeper",
		Name:      "requests_total",
		Help:      "Total number of API requests by rate-limit profile and status class",
	}, []string{"profile", "class"})
	rateLimitRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notekeeper",
		Name:      "rate_limit_rejections_total",
		Help:      "Total number of requests rejected by the rate limiter, by profile",
	}, []string{"profile"})
	validationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "notekeeper",
		Name:      "validation_failures_total",
		Help:      "Total number of request bodies that failed schema validation",
	})
	cacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notekeeper",
		Name:      "cache_hits_total",
		Help:      "Total cache hits by cache name",
	}, []string{"cache"})
	cacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notekeeper",
		Name:      "cache_misses_total",
		Help:      "Total cache misses by cache name",
	}, []string{"cache"})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestsTotal, rateLimitRejections, validationFailures,
			cacheHits, cacheMisses)
	})
}

func IncRequest(profile, class string)  { requestsTotal.WithLabelValues(profile, class).Inc() }
func IncRateLimitRejection(p string)    { rateLimitRejections.WithLabelValues(p).Inc() }
func IncValidationFailure()             { validationFailures.Inc() }
func IncCacheHit(cacheName string)      { cacheHits.WithLabelValues(cacheName).Inc() }
func IncCacheMiss(cacheName string)     { cacheMisses.WithLabelValues(cacheName).Inc() }
