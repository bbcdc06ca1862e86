package cluster

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"sisrekomact/domain"
	"sisrekomact/pkg/metrics"
)

// SnapshotStore persists the whole cache map. Save must replace the stored
// map atomically: a reader of the store never sees a partial write.
type SnapshotStore interface {
	Load(ctx context.Context) (map[string]domain.CacheEntry, error)
	Save(ctx context.Context, entries map[string]domain.CacheEntry) error
}

type snapshot struct {
	entries    map[string]domain.CacheEntry
	computedAt time.Time
}

// Cache holds the current student -> cluster snapshot. Snapshots are
// immutable; a recompute swaps in a new one, so readers see either the old
// map or the new map and nothing in between.
type Cache struct {
	current atomic.Pointer[snapshot]
}

func NewCache() *Cache {
	c := &Cache{}
	c.current.Store(&snapshot{entries: map[string]domain.CacheEntry{}})
	return c
}

// Lookup returns the cached entry of a student. It never triggers work.
func (c *Cache) Lookup(studentID string) (domain.CacheEntry, bool) {
	entry, ok := c.current.Load().entries[studentID]
	if !ok {
		metrics.ClusterCacheLookups.WithLabelValues("miss").Inc()
		return domain.CacheEntry{}, false
	}
	metrics.ClusterCacheLookups.WithLabelValues("hit").Inc()

	entry.StudentID = studentID
	entry.FeatureVector = entry.FeatureVector.Clone()
	return entry, true
}

func (c *Cache) Len() int {
	return len(c.current.Load().entries)
}

// ComputedAt is the time the current snapshot was built or restored.
func (c *Cache) ComputedAt() time.Time {
	return c.current.Load().computedAt
}

// Replace swaps in a new snapshot. The cache takes ownership of entries.
func (c *Cache) Replace(entries map[string]domain.CacheEntry, computedAt time.Time) {
	if entries == nil {
		entries = map[string]domain.CacheEntry{}
	}
	c.current.Store(&snapshot{entries: entries, computedAt: computedAt})
	metrics.ClusterCacheEntries.Set(float64(len(entries)))
}

// Restore loads the persisted snapshot, typically once at startup.
func (c *Cache) Restore(ctx context.Context, store SnapshotStore) (int, error) {
	entries, err := store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("restore cluster cache: %w", err)
	}

	for id, e := range entries {
		e.StudentID = id
		entries[id] = e
	}

	c.Replace(entries, time.Now())
	return len(entries), nil
}
