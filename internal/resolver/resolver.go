// Package resolver implements batched get-or-fetch reference resolution.
//
// Every entity provider resolves foreign keys through a Resolver: ids that
// are already in the kind's superset cache are served from memory and the
// remainder are fetched in a single batched request, then merged back into
// the cache. Sibling lists that share referenced records therefore cost at
// most one upstream request per list fetch.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/catalogue-admin/internal/cache"
	"github.com/tbourn/catalogue-admin/internal/domain"
)

// ErrNotFound is returned when a requested id has no upstream record.
var ErrNotFound = errors.New("not found")

// MissingError lists the ids a batch fetch did not return.
type MissingError struct {
	Kind string
	IDs  []int
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s: ids %v not found", e.Kind, e.IDs)
}

// Is makes MissingError match ErrNotFound.
func (e *MissingError) Is(target error) bool { return target == ErrNotFound }

// BatchFetcher fetches the records for ids in one upstream request.
type BatchFetcher[T domain.Entity] func(ctx context.Context, ids []int) ([]T, error)

// Resolver resolves ids of one record kind against its superset cache.
type Resolver[T domain.Entity] struct {
	kind  string
	cache *cache.Cache[T]
	fetch BatchFetcher[T]
}

// New returns a resolver for kind backed by c.
func New[T domain.Entity](kind string, c *cache.Cache[T], fetch BatchFetcher[T]) *Resolver[T] {
	return &Resolver[T]{kind: kind, cache: c, fetch: fetch}
}

// Kind returns the record kind name.
func (r *Resolver[T]) Kind() string { return r.kind }

// Cache returns the superset cache.
func (r *Resolver[T]) Cache() *cache.Cache[T] { return r.cache }

// GetOrFetch returns the cached object for id, fetching it on a miss.
func (r *Resolver[T]) GetOrFetch(ctx context.Context, id int) (T, error) {
	if v, ok := r.cache.Get(id); ok {
		cacheHits.WithLabelValues(r.kind).Inc()
		return v, nil
	}
	out, err := r.GetOrFetchList(ctx, []int{id})
	if err != nil {
		var zero T
		return zero, err
	}
	return out[0], nil
}

// GetOrFetchList resolves ids, issuing at most one batched fetch for the
// ids not yet cached. The result holds exactly one object per distinct id,
// in order of first appearance in ids. If the backend omits any requested
// id the call fails with a *MissingError.
func (r *Resolver[T]) GetOrFetchList(ctx context.Context, ids []int) ([]T, error) {
	hits, misses := r.cache.Partition(ids)
	cacheHits.WithLabelValues(r.kind).Add(float64(len(hits)))
	if len(misses) == 0 {
		return hits, nil
	}
	cacheMisses.WithLabelValues(r.kind).Add(float64(len(misses)))

	ctx, span := otel.Tracer("resolver").Start(ctx, "GetOrFetchList",
		trace.WithAttributes(
			attribute.String("kind", r.kind),
			attribute.Int("ids.cached", len(hits)),
			attribute.Int("ids.fetch", len(misses)),
		),
	)
	defer span.End()

	log.Debug().Str("kind", r.kind).Ints("ids", misses).Int("cached", len(hits)).Msg("batch resolve")
	batchFetches.WithLabelValues(r.kind).Inc()
	batchSize.WithLabelValues(r.kind).Observe(float64(len(misses)))

	fetched, err := r.fetch(ctx, misses)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	r.cache.Put(fetched...)

	byID := make(map[int]T, len(hits)+len(fetched))
	for _, v := range hits {
		byID[v.PrimaryKey()] = v
	}
	for _, v := range fetched {
		byID[v.PrimaryKey()] = v
	}

	out := make([]T, 0, len(byID))
	var missing []int
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		v, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, v)
	}
	if len(missing) > 0 {
		return nil, &MissingError{Kind: r.kind, IDs: missing}
	}
	return out, nil
}
