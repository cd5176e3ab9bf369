package resolver

import "github.com/prometheus/client_golang/prometheus"

var (
	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_cache_hits_total",
			Help: "Ids served from the superset cache.",
		},
		[]string{"kind"},
	)

	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_cache_misses_total",
			Help: "Ids that required an upstream fetch.",
		},
		[]string{"kind"},
	)

	batchFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_batch_fetches_total",
			Help: "Batched upstream fetches issued by resolvers.",
		},
		[]string{"kind"},
	)

	batchSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resolver_batch_size",
			Help:    "Number of ids per batched fetch.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses, batchFetches, batchSize)
}
