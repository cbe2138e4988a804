package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dialogue engine Prometheus metrics.
var (
	TurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laptopbot",
			Name:      "turns_total",
			Help:      "Processed user turns by dialogue state and outcome",
		},
		[]string{"state", "outcome"},
	)

	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laptopbot",
			Name:      "use_case_classifications_total",
			Help:      "Use-case classifications by source",
		},
		[]string{"source"}, // "embedding" / "keyword"
	)

	OffTopicTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "laptopbot",
			Name:      "off_topic_turns_total",
			Help:      "Turns detected as off-topic",
		},
	)

	FilterFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laptopbot",
			Name:      "filter_fallbacks_total",
			Help:      "Filter stages that fell back to a sampled result",
		},
		[]string{"stage"},
	)

	RankCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laptopbot",
			Name:      "rank_cache_total",
			Help:      "Top-K window reuse by the ranker",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RankDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "laptopbot",
			Name:      "rank_duration_seconds",
			Help:      "Time spent ranking candidates on a cache miss",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "laptopbot",
			Name:      "active_sessions",
			Help:      "Sessions currently held by the session store",
		},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers dialogue engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(TurnsTotal)
	prometheus.MustRegister(ClassificationsTotal)
	prometheus.MustRegister(OffTopicTotal)
	prometheus.MustRegister(FilterFallbacksTotal)
	prometheus.MustRegister(RankCacheTotal)
	prometheus.MustRegister(RankDuration)
	prometheus.MustRegister(ActiveSessions)
	engineMetricsRegistered = true
}
