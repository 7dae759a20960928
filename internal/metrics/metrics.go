package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "topsis"

var (
	RankingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rankings_total",
		Help:      "Ranking runs by outcome.",
	}, []string{"outcome"})

	RankingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ranking_duration_seconds",
		Help:      "Wall time of a ranking run, dataset load included.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	RankingAlternatives = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ranking_alternatives",
		Help:      "Number of alternatives scored per run.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	DegenerateScoresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degenerate_scores_total",
		Help:      "Scores computed with the epsilon denominator.",
	})

	ZeroColumnsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "zero_columns_total",
		Help:      "All-zero criterion columns left unnormalized.",
	})

	DatasetLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_loads_total",
		Help:      "Dataset loads from the underlying source by outcome.",
	}, []string{"outcome"})
)

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeConfigError = "config_error"
	OutcomeEmpty       = "empty"
	OutcomeError       = "error"
)

// ObserveRanking records one finished ranking run.
func ObserveRanking(outcome string, started time.Time, alternatives, degenerate, zeroColumns int) {
	RankingsTotal.WithLabelValues(outcome).Inc()
	RankingDuration.Observe(time.Since(started).Seconds())
	if outcome != OutcomeOK {
		return
	}
	RankingAlternatives.Observe(float64(alternatives))
	DegenerateScoresTotal.Add(float64(degenerate))
	ZeroColumnsTotal.Add(float64(zeroColumns))
}

// ObserveDatasetLoad records a load from a dataset source.
func ObserveDatasetLoad(err error) {
	if err != nil {
		DatasetLoadsTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	DatasetLoadsTotal.WithLabelValues(OutcomeOK).Inc()
}
