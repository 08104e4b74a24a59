package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecommendationRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recsvc",
		Name:      "recommendation_requests_total",
		Help:      "Recommendation requests served.",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recsvc",
		Name:      "cache_hits_total",
		Help:      "Recommendation cache hits.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recsvc",
		Name:      "cache_misses_total",
		Help:      "Recommendation cache misses.",
	})

	CacheErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recsvc",
		Name:      "cache_errors_total",
		Help:      "Cache backend errors degraded to direct compute.",
	})

	InteractionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recsvc",
		Name:      "interactions_recorded_total",
		Help:      "Interaction events folded into preference profiles.",
	}, []string{"type"})

	ScoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "recsvc",
		Name:      "scoring_duration_seconds",
		Help:      "Wall time of one select-score-rank pass.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
