// Package metrics provides Prometheus metrics for chatd.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level collectors, registered once with the default registerer so
// that independently constructed stores (tests included) share them.
var (
	// AnswerQueriesTotal counts answering-service queries by outcome:
	// ok, error, cancelled.
	AnswerQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatd_answer_queries_total",
			Help: "Total number of answering service queries",
		},
		[]string{"status"},
	)

	// AnswerQueryDuration observes answering-service round-trip latency.
	AnswerQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatd_answer_query_duration_seconds",
			Help:    "Duration of answering service queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SnapshotSavesTotal counts snapshot writes by status: ok, error.
	SnapshotSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatd_snapshot_saves_total",
			Help: "Total number of conversation snapshot writes",
		},
		[]string{"status"},
	)

	// SnapshotResetsTotal counts loads that found a missing or corrupt
	// snapshot and degraded to an empty collection.
	SnapshotResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatd_snapshot_resets_total",
			Help: "Total number of snapshot loads that reset to an empty collection",
		},
	)
)
