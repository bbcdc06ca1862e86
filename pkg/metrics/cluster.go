package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of a full cohort recompute (aggregate + classify + persist)
	ClusterRecomputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cluster_recompute_duration_seconds",
		Help:    "Duration of full-cohort cluster recomputes",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	// Recomputes by outcome: ok, empty, failed
	ClusterRecomputeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cluster_recompute_total",
		Help: "Total cluster recomputes by result",
	}, []string{"result"})

	ClusterCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cluster_cache_lookups_total",
		Help: "Cluster cache lookups by result (hit or miss)",
	}, []string{"result"})

	ClusterCacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cluster_cache_entries",
		Help: "Number of students in the current cluster cache snapshot",
	})

	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_latency_seconds",
		Help:    "Latency of the recommendation handler",
		Buckets: prometheus.DefBuckets,
	})

	RecommendTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_requests_total",
		Help: "Recommendation requests by category",
	}, []string{"category"})
)

func Init() {
	prometheus.MustRegister(
		ClusterRecomputeDuration,
		ClusterRecomputeTotal,
		ClusterCacheLookups,
		ClusterCacheEntries,
		RecommendLatency,
		RecommendTotal,
		HTTPRequestDuration,
	)
}
