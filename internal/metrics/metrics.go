package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine metrics.
var (
	TransliterationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sanscript_transliterations_total",
		Help: "Completed conversions by source and destination scheme",
	}, []string{"from", "to"})

	SchemeNotSupportedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sanscript_scheme_not_supported_total",
		Help: "Conversions rejected because a scheme name was unknown",
	})

	MapBuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sanscript_map_builds_total",
		Help: "Conversion maps built from the scheme registry",
	})

	MapCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sanscript_map_cache_lookups_total",
		Help: "Map cache lookups by result",
	}, []string{"result"})
)

// Web server metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sanscript_http_requests_total",
		Help: "Total HTTP requests by route, method, and status code",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sanscript_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route", "method"})

	RateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sanscript_rate_limit_hits_total",
		Help: "Total rate limit rejections",
	})

	BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sanscript_batch_size",
		Help:    "Number of texts per batch request",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
	})
)
