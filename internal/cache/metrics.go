package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinscope_cache_hits_total",
		Help: "Total number of cache hits",
	}, []string{"cache"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinscope_cache_misses_total",
		Help: "Total number of cache misses, expired entries included",
	}, []string{"cache"})

	CacheSetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinscope_cache_sets_total",
		Help: "Total number of cache sets",
	}, []string{"cache"})

	CacheRemovalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinscope_cache_removals_total",
		Help: "Total number of entries evicted for capacity or dropped after expiry",
	}, []string{"cache"})
)
