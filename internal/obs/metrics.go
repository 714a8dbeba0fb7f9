package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics the Round Engine and HTTP surface record against, grounded
// on samirrijal-bilbopass/internal/pkg/metrics's promauto-registered
// collector shape.
var (
	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "transitraptor",
		Subsystem: "raptor",
		Name:      "query_duration_seconds",
		Help:      "Wall-clock time to run one earliest-arrival query.",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	RoundsExecuted = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "transitraptor",
		Subsystem: "raptor",
		Name:      "rounds_executed",
		Help:      "Number of rounds a query actually ran before the frontier emptied or K was reached.",
		Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 20},
	})

	StopsTouchedPerRound = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "transitraptor",
		Subsystem: "raptor",
		Name:      "stops_touched_per_round",
		Help:      "Number of stops whose label improved in a single round.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	QueriesUnreached = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "transitraptor",
		Subsystem: "raptor",
		Name:      "queries_unreached_total",
		Help:      "Total queries that failed to reach any destination platform within K rounds.",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transitraptor",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Optimized-schedule cache lookups by outcome.",
	}, []string{"outcome"})
)

// MetricsHandler serves the Prometheus text exposition format.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
