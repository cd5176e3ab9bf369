// Package cache holds the in-memory state of the admin front end: an
// id-keyed superset cache per record kind, used as the lookup table for
// reference resolution, and a Store per kind holding the current filtered
// page.
//
// The superset cache never shrinks during the life of the process except on
// an explicit Reset. Entries are added or overwritten by id; no two entries
// share an id.
package cache

import (
	"sort"
	"sync"

	"github.com/tbourn/catalogue-admin/internal/domain"
)

// Cache is a concurrency-safe map of hydrated objects keyed by id.
type Cache[T domain.Entity] struct {
	mu    sync.RWMutex
	items map[int]T
}

// New returns an empty cache.
func New[T domain.Entity]() *Cache[T] {
	return &Cache[T]{items: make(map[int]T)}
}

// Get looks up one id.
func (c *Cache[T]) Get(id int) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	return v, ok
}

// Partition splits ids into cached objects and ids still to fetch. Each
// distinct id lands in exactly one of the two results, in order of first
// appearance; duplicates in ids are collapsed.
func (c *Cache[T]) Partition(ids []int) (hits []T, misses []int) {
	seen := make(map[int]struct{}, len(ids))
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if v, ok := c.items[id]; ok {
			hits = append(hits, v)
		} else {
			misses = append(misses, id)
		}
	}
	return hits, misses
}

// Put inserts or overwrites items by id.
func (c *Cache[T]) Put(items ...T) {
	if len(items) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range items {
		c.items[it.PrimaryKey()] = it
	}
}

// Replace overwrites the entry with item's id if one exists and reports
// whether it did.
func (c *Cache[T]) Replace(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[item.PrimaryKey()]; !ok {
		return false
	}
	c.items[item.PrimaryKey()] = item
	return true
}

// Len returns the number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// All returns every entry ordered by id.
func (c *Cache[T]) All() []T {
	c.mu.RLock()
	out := make([]T, 0, len(c.items))
	for _, v := range c.items {
		out = append(out, v)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].PrimaryKey() < out[j].PrimaryKey() })
	return out
}

// Reset drops every entry.
func (c *Cache[T]) Reset() {
	c.mu.Lock()
	c.items = make(map[int]T)
	c.mu.Unlock()
}
