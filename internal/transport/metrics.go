package transport

import "github.com/prometheus/client_golang/prometheus"

var (
	// upstreamReqs counts upstream calls by method, resource and status
	// ("error" when no response was received).
	upstreamReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Requests issued to the catalogue API.",
		},
		[]string{"method", "resource", "status"},
	)

	upstreamLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of catalogue API requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "resource"},
	)
)

func init() {
	prometheus.MustRegister(upstreamReqs, upstreamLat)
}
