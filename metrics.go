package dstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values of the "result" label of cacheRequestsTotal.
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultLocal = "local"
)

var (
	cacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dstore_cache_requests_total",
		Help: "Materialize calls, by whether they were served from the cache.",
	}, []string{"result"})

	fetchAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dstore_fetch_attempts_total",
		Help: "Attempts to open a remote stream, by strategy.",
	}, []string{"strategy"})

	fetchFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dstore_fetch_failures_total",
		Help: "Opens that failed after every attempt, by strategy.",
	}, []string{"strategy"})

	materializedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dstore_materialized_bytes_total",
		Help: "Cumulative number of bytes written into the local cache.",
	})

	materializeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dstore_materialize_duration_seconds",
		Help:    "Duration of fetches into the local cache.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 15), // 10ms to ~5m
	})
)
