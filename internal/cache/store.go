package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/filter"
)

// ErrNoWatcher is returned when a store is asked to refetch before a
// provider has been attached with Watch.
var ErrNoWatcher = errors.New("store has no fetch watcher")

// FetchFunc fetches one page for a filter. Entity providers supply it.
type FetchFunc[T domain.Entity] func(ctx context.Context, f *filter.Filter) (domain.Page[T], error)

// View is a point-in-time copy of a store's state.
type View[T any] struct {
	Items  []T         `json:"items"`
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
	Sort   filter.Sort `json:"sort"`
}

// Store holds the current filtered page of one record kind together with
// its filter state. Results are merged into the shared superset cache on
// every successful refetch.
type Store[T domain.Entity] struct {
	mu       sync.RWMutex
	superset *Cache[T]
	schema   *filter.Schema
	limit    int
	filter   *filter.Filter
	page     []T
	total    int
	gen      uint64
	fetch    FetchFunc[T]
}

// NewStore returns a store over superset with an empty filter.
func NewStore[T domain.Entity](superset *Cache[T], schema *filter.Schema, limit int) *Store[T] {
	return &Store[T]{
		superset: superset,
		schema:   schema,
		limit:    limit,
		filter:   filter.New(schema, limit),
	}
}

// Watch attaches the fetcher invoked on every filter change.
func (s *Store[T]) Watch(fn FetchFunc[T]) {
	s.mu.Lock()
	s.fetch = fn
	s.mu.Unlock()
}

// Superset returns the shared cache backing the store.
func (s *Store[T]) Superset() *Cache[T] { return s.superset }

// SetFilter assigns one filter field; an unset value removes it. A valid
// change returns to the first page, invalidates the current page and
// triggers exactly one refetch. An invalid change leaves the state alone.
func (s *Store[T]) SetFilter(ctx context.Context, field string, v filter.Value) error {
	return s.mutate(ctx, func(f *filter.Filter) error {
		if err := f.Set(field, v); err != nil {
			return err
		}
		f.Offset = 0
		return nil
	})
}

// SetPage moves to offset.
func (s *Store[T]) SetPage(ctx context.Context, offset int) error {
	return s.mutate(ctx, func(f *filter.Filter) error {
		if offset < 0 {
			offset = 0
		}
		f.Offset = offset
		return nil
	})
}

// SetLimit changes the page size and returns to the first page.
func (s *Store[T]) SetLimit(ctx context.Context, limit int) error {
	return s.mutate(ctx, func(f *filter.Filter) error {
		if limit <= 0 {
			limit = s.limit
		}
		f.Limit = limit
		f.Offset = 0
		return nil
	})
}

// SetWindow moves to offset with page size limit in a single refetch. A
// non-positive limit keeps the current one.
func (s *Store[T]) SetWindow(ctx context.Context, offset, limit int) error {
	return s.mutate(ctx, func(f *filter.Filter) error {
		if limit > 0 {
			f.Limit = limit
		}
		if offset < 0 {
			offset = 0
		}
		f.Offset = offset
		return nil
	})
}

// OnSort advances the sort cycle of column.
func (s *Store[T]) OnSort(ctx context.Context, column string) error {
	return s.mutate(ctx, func(f *filter.Filter) error { return f.OnSort(column) })
}

func (s *Store[T]) mutate(ctx context.Context, apply func(*filter.Filter) error) error {
	s.mu.Lock()
	next := s.filter.Clone()
	if err := apply(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.filter = next
	s.page = nil
	s.total = 0
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh refetches the current page. The new page replaces the old one
// wholesale unless a newer refresh has started meanwhile; fetched objects
// are always merged into the superset cache.
func (s *Store[T]) Refresh(ctx context.Context) error {
	s.mu.Lock()
	fetch := s.fetch
	f := s.filter.Clone()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if fetch == nil {
		return ErrNoWatcher
	}
	page, err := fetch(ctx, f)
	if err != nil {
		return err
	}
	s.superset.Put(page.Items...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.page = page.Items
		s.total = page.Total
	}
	return nil
}

// UpdateEntry replaces the entry with item's id in the current page, if
// present there, and in the superset cache, if present there.
func (s *Store[T]) UpdateEntry(item T) {
	s.mu.Lock()
	for i := range s.page {
		if s.page[i].PrimaryKey() == item.PrimaryKey() {
			s.page[i] = item
		}
	}
	s.mu.Unlock()
	s.superset.Replace(item)
}

// Snapshot copies the current state.
func (s *Store[T]) Snapshot() View[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]T, len(s.page))
	copy(items, s.page)
	return View[T]{
		Items:  items,
		Total:  s.total,
		Offset: s.filter.Offset,
		Limit:  s.filter.Limit,
		Sort:   s.filter.Sort,
	}
}

// Filter returns a copy of the current filter.
func (s *Store[T]) Filter() *filter.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Clone()
}

// Reset clears the page and filter. The superset cache is not touched.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	s.filter = filter.New(s.schema, s.limit)
	s.page = nil
	s.total = 0
	s.gen++
	s.mu.Unlock()
}
