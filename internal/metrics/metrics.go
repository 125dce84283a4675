// Package metrics defines the Prometheus collectors for the engine and the
// HTTP layer. Collectors are registered with the default registry and served
// on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Materializations counts content-cache builds, labelled by outcome
	// ("hit" for cache short-circuits, "built" for full resolutions).
	Materializations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strata",
		Name:      "materializations_total",
		Help:      "Content cache resolutions, by outcome.",
	}, []string{"outcome"})

	// Invalidations counts cache invalidation cascades entered via the
	// reference graph.
	Invalidations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "strata",
		Name:      "cache_invalidations_total",
		Help:      "Assets whose caches were cleared by an invalidation cascade.",
	})

	// Renders counts template renderings, labelled by template name.
	Renders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strata",
		Name:      "template_renders_total",
		Help:      "Template renderings, by template name.",
	}, []string{"template"})

	// Revisions counts kept content revisions created by the modify path.
	Revisions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "strata",
		Name:      "revisions_total",
		Help:      "Content revisions kept after a modification.",
	})

	// HTTPRequests counts API requests, labelled by route and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strata",
		Name:      "http_requests_total",
		Help:      "API requests, by route and status code.",
	}, []string{"route", "status"})

	// HTTPDuration observes API request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "strata",
		Name:      "http_request_duration_seconds",
		Help:      "API request latency, by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)
