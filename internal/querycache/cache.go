// Package querycache memoizes aggregation results keyed by date range, with
// TTL expiry and count-bounded eviction.
package querycache

import (
	"sort"
	"sync"
	"time"

	"chatlytics/internal/model"
)

// Defaults for cache behavior.
const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 50
)

type payload[T any] struct {
	data  T
	stamp time.Time
	set   bool
}

// entry holds the independently-cacheable metrics and chart-data payloads
// for one exact date range.
type entry struct {
	dateRange model.DateRange
	metrics   payload[model.Metrics]
	charts    payload[model.ChartData]
}

// oldest returns the minimum timestamp across the entry's set payloads.
func (e *entry) oldest() time.Time {
	switch {
	case e.metrics.set && e.charts.set:
		if e.metrics.stamp.Before(e.charts.stamp) {
			return e.metrics.stamp
		}
		return e.charts.stamp
	case e.metrics.set:
		return e.metrics.stamp
	default:
		return e.charts.stamp
	}
}

// Cache is the process-wide date-range result cache. The facade issues
// metrics and chart aggregation concurrently, so all read-modify-write is
// done under one lock.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New returns a cache with the given TTL and entry bound; non-positive
// values select the defaults.
func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    make(map[string]*entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// GetMetrics returns the cached metrics for the exact range, or false when
// absent or stale. Stale entries are treated as misses, not deleted eagerly.
func (c *Cache) GetMetrics(r model.DateRange) (model.Metrics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[r.Key()]
	if !ok || !e.metrics.set || !c.fresh(e.metrics.stamp) {
		return model.Metrics{}, false
	}
	return e.metrics.data, true
}

// GetChartData returns the cached chart data for the exact range, or false
// when absent or stale.
func (c *Cache) GetChartData(r model.DateRange) (model.ChartData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[r.Key()]
	if !ok || !e.charts.set || !c.fresh(e.charts.stamp) {
		return model.ChartData{}, false
	}
	return e.charts.data, true
}

// SetMetrics stores the metrics payload for the range, stamped now, then
// evicts the oldest entries if the cache grew past its bound.
func (c *Cache) SetMetrics(r model.DateRange, m model.Metrics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.ensure(r)
	e.metrics = payload[model.Metrics]{data: m, stamp: c.now(), set: true}
	c.evictOverflow()
}

// SetChartData stores the chart payload for the range, stamped now, then
// evicts the oldest entries if the cache grew past its bound.
func (c *Cache) SetChartData(r model.DateRange, cd model.ChartData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.ensure(r)
	e.charts = payload[model.ChartData]{data: cd, stamp: c.now(), set: true}
	c.evictOverflow()
}

// InvalidateAll clears every entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Invalidate removes only the exact-key entry for the range.
func (c *Cache) Invalidate(r model.DateRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, r.Key())
}

// InvalidateOverlapping removes every entry whose range overlaps the given
// one. Used when the underlying session data changes.
func (c *Cache) InvalidateOverlapping(r model.DateRange) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if e.dateRange.Overlaps(r) {
			delete(c.entries, key)
		}
	}
}

// Stats describes the cache contents for introspection.
type Stats struct {
	Entries int      `json:"entries"`
	Keys    []string `json:"keys"`
}

// Stats returns the current entry count and keys, sorted.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Stats{Entries: len(c.entries), Keys: keys}
}

func (c *Cache) fresh(stamp time.Time) bool {
	return c.now().Sub(stamp) < c.ttl
}

func (c *Cache) ensure(r model.DateRange) *entry {
	key := r.Key()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{dateRange: r}
		c.entries[key] = e
	}
	return e
}

// evictOverflow removes globally-oldest entries until the cache is back
// under its bound. Called with the lock held, right after an insert, so a
// just-inserted entry is never evicted ahead of older ones.
func (c *Cache) evictOverflow() {
	for len(c.entries) > c.maxEntries {
		var oldestKey string
		var oldestStamp time.Time
		for key, e := range c.entries {
			stamp := e.oldest()
			if oldestKey == "" || stamp.Before(oldestStamp) {
				oldestKey = key
				oldestStamp = stamp
			}
		}
		delete(c.entries, oldestKey)
	}
}
