package docdelve

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level counters registered the same way the teacher registers
// its backend counters in src/observe.go, via promauto rather than
// manually constructing and calling MustRegister.
var (
	chestsLoadedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docdelve_chests_loaded",
		Help: "Count of chests successfully loaded into the database",
	})
	chestLoadErrorsCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docdelve_chest_load_errors",
		Help: "Count of chests skipped during database load due to a load or parse error",
	})

	searchesPerformedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docdelve_searches_performed",
		Help: "Count of Search calls against the database",
	})
	searchResultsReturnedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docdelve_search_results_returned",
		Help: "Total number of results returned across all Search calls",
	})

	searchCacheHitCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docdelve_search_cache_hits",
		Help: "Count of search-result cache hits",
	})
	searchCacheMissCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docdelve_search_cache_misses",
		Help: "Count of search-result cache misses",
	})
	searchCacheEvictionCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docdelve_search_cache_evictions",
		Help: "Count of search-result cache evictions",
	})
)
