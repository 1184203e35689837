package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Hits counts cache hits per load strategy.
	Hits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashsale_cache_hits_total",
		Help: "Number of cache hits",
	}, []string{"strategy"})

	// Misses counts true cache misses per load strategy.
	Misses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashsale_cache_misses_total",
		Help: "Number of cache misses",
	}, []string{"strategy"})

	// NullHits counts lookups answered by a null marker without touching
	// the source of truth.
	NullHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flashsale_cache_null_marker_hits_total",
		Help: "Number of lookups answered by a penetration-guard null marker",
	})

	// StaleReads counts logical-expiration reads served stale.
	StaleReads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flashsale_cache_stale_reads_total",
		Help: "Number of reads served from logically expired entries",
	})

	// Rebuilds counts background rebuild jobs by result.
	Rebuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashsale_cache_rebuilds_total",
		Help: "Number of background cache rebuild jobs",
	}, []string{"result"})
)
