package docdelve

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"
)

// weightedCacheEntry is the same shape the teacher's observedCache
// requires of its values (src/cache.go): something it can charge
// against the cache's size budget.
type weightedCacheEntry interface {
	Weight() uint32
}

// trackedLoader records whether a Get call actually invoked the
// wrapped loader, the same bookkeeping trick the teacher uses to tell
// a cache hit from a miss without otter exposing that distinction
// directly.
type trackedLoader[K comparable, V any] struct {
	loader   otter.Loader[K, V]
	loaded   bool
	reloaded bool
}

func (l *trackedLoader[K, V]) Load(ctx context.Context, key K) (V, error) {
	val, err := l.loader.Load(ctx, key)
	l.loaded = true
	return val, err
}

func (l *trackedLoader[K, V]) Reload(ctx context.Context, key K, oldValue V) (V, error) {
	val, err := l.loader.Reload(ctx, key, oldValue)
	l.reloaded = true
	return val, err
}

// observedCache wraps an otter.Cache, feeding hit/miss/eviction counts
// to Prometheus counters, the same generic shape as the teacher's
// src/cache.go observedCache (there parameterized for blob caches;
// here reused unchanged for search results, the only cache this
// package needs).
type observedCache[K comparable, V weightedCacheEntry] struct {
	Cache *otter.Cache[K, V]
}

func newObservedCache[K comparable, V weightedCacheEntry](
	options *otter.Options[K, V],
) (*observedCache[K, V], error) {
	c := &observedCache[K, V]{}

	optionsCopy := *options
	options = &optionsCopy
	options.StatsRecorder = c

	var err error
	c.Cache, err = otter.New(options)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *observedCache[K, V]) Get(ctx context.Context, key K, loader otter.Loader[K, V]) (V, error) {
	observedLoader := trackedLoader[K, V]{loader: loader}
	val, err := c.Cache.Get(ctx, key, &observedLoader)
	if err == nil {
		if observedLoader.loaded {
			searchCacheMissCount.Inc()
		} else {
			searchCacheHitCount.Inc()
		}
	}
	return val, err
}

func (c *observedCache[K, V]) RecordHits(count int)   {}
func (c *observedCache[K, V]) RecordMisses(count int) {}
func (c *observedCache[K, V]) RecordEviction(weight uint32) {
	searchCacheEvictionCount.Inc()
}
func (c *observedCache[K, V]) RecordLoadSuccess(loadTime time.Duration) {}
func (c *observedCache[K, V]) RecordLoadFailure(loadTime time.Duration) {}

// searchCacheKey identifies one cached search: which chest (empty
// string for a whole-database cross-chest search), the query, the
// starting path (rendered to a string since ChestPath isn't itself
// comparable with the blank identity otter needs), and the result
// count requested.
type searchCacheKey struct {
	chestIdentifier string
	query           string
	start           string
	resultCount     int
}

// searchCacheValue wraps a ranked result set with the Weight otter
// charges against the cache's size budget: the number of results plus
// one, a proxy for how much work producing them cost.
type searchCacheValue struct {
	results []RankedResult
}

func (v searchCacheValue) Weight() uint32 {
	return uint32(len(v.results)) + 1
}

// newSearchCache builds the search-result cache shared across chests,
// sized from LimitsConfig.SearchCacheSize (spec §4.3 "repeated queries
// against an unchanged chest should be cheap").
func newSearchCache(maxSize uint) (*observedCache[searchCacheKey, searchCacheValue], error) {
	options := &otter.Options[searchCacheKey, searchCacheValue]{
		MaximumWeight: uint64(maxSize),
		Weigher: func(key searchCacheKey, value searchCacheValue) uint32 {
			return value.Weight()
		},
	}
	return newObservedCache(options)
}
