package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deskmate_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deskmate_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deskmate_resolutions_total",
			Help: "Total number of resolved messages by answering tier.",
		},
		[]string{"source"},
	)

	GenerationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deskmate_generation_failures_total",
			Help: "Total number of failed generative-model calls.",
		},
	)

	EmbeddingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deskmate_embedding_duration_seconds",
			Help:    "Embedding computation duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ResolutionsTotal,
		GenerationFailuresTotal,
		EmbeddingDuration,
	)
}
