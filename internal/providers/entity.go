package providers

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/catalogue-admin/internal/cache"
	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/filter"
	"github.com/tbourn/catalogue-admin/internal/resolver"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

// hydrateFunc turns a batch of wire records into domain objects, in order.
type hydrateFunc[W any, T domain.Entity] func(ctx context.Context, recs []W) ([]T, error)

// entityProvider holds the list, item and mutation plumbing shared by every
// record kind. Kind providers embed it and supply hydration.
type entityProvider[W any, T domain.Entity] struct {
	kind    string
	path    string
	api     transport.API
	schema  *filter.Schema
	hydrate hydrateFunc[W, T]

	refs  *resolver.Resolver[T]
	store *cache.Store[T]
}

func newEntityProvider[W any, T domain.Entity](
	kind, path string,
	api transport.API,
	schema *filter.Schema,
	c *cache.Cache[T],
	pageSize int,
) *entityProvider[W, T] {
	p := &entityProvider[W, T]{kind: kind, path: path, api: api, schema: schema}
	p.refs = resolver.New(kind, c, p.fetchByIDs)
	p.store = cache.NewStore(c, schema, pageSize)
	p.store.Watch(p.FetchList)
	return p
}

func (p *entityProvider[W, T]) tracer() trace.Tracer {
	return otel.Tracer("providers/" + p.kind)
}

// Kind returns the record kind name.
func (p *entityProvider[W, T]) Kind() string { return p.kind }

// Schema returns the filter schema of the kind.
func (p *entityProvider[W, T]) Schema() *filter.Schema { return p.schema }

// Store returns the list-view store.
func (p *entityProvider[W, T]) Store() *cache.Store[T] { return p.store }

// Cache returns the superset cache.
func (p *entityProvider[W, T]) Cache() *cache.Cache[T] { return p.refs.Cache() }

// FetchList fetches and hydrates one page matching f. Hydrated items are
// merged into the superset cache, replacing older copies by id.
func (p *entityProvider[W, T]) FetchList(ctx context.Context, f *filter.Filter) (domain.Page[T], error) {
	ctx, span := p.tracer().Start(ctx, "FetchList",
		trace.WithAttributes(
			attribute.Int("page.offset", f.Offset),
			attribute.Int("page.limit", f.Limit),
		),
	)
	defer span.End()

	env, err := transport.List[W](ctx, p.api, p.path, f.Query())
	if err != nil {
		span.RecordError(err)
		return domain.Page[T]{}, err
	}
	items, err := p.hydrate(ctx, env.Results)
	if err != nil {
		span.RecordError(err)
		return domain.Page[T]{}, fmt.Errorf("hydrate %s page: %w", p.kind, err)
	}
	p.Cache().Put(items...)

	page := domain.Page[T]{Items: items, Total: env.Count, Offset: f.Offset, Limit: f.Limit}
	if env.Next != nil {
		next := f.Offset + len(env.Results)
		page.NextOffset = &next
	}
	span.SetAttributes(attribute.Int("page.items", len(items)), attribute.Int("page.total", env.Count))
	return page, nil
}

// fetchByIDs is the batch fetcher behind the resolver: one id__in request
// sized to the batch. If the backend caps the page below the batch, the
// remaining pages are followed so no id is reported missing by truncation.
func (p *entityProvider[W, T]) fetchByIDs(ctx context.Context, ids []int) ([]T, error) {
	f := filter.New(p.schema, len(ids))
	if err := f.Set("id", filter.IDs(ids...)); err != nil {
		return nil, err
	}
	ctx, span := p.tracer().Start(ctx, "FetchByIDs", trace.WithAttributes(attribute.Int("ids", len(ids))))
	defer span.End()

	env, err := transport.ListAll[W](ctx, p.api, p.path, f.Query())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	items, err := p.hydrate(ctx, env.Results)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hydrate %s batch: %w", p.kind, err)
	}
	return items, nil
}

// FetchOne fetches and hydrates a single record. A 404 yields ErrNotFound.
func (p *entityProvider[W, T]) FetchOne(ctx context.Context, id int) (T, error) {
	var zero T
	if id <= 0 {
		return zero, missingID("fetch", p.kind)
	}
	ctx, span := p.tracer().Start(ctx, "FetchOne", trace.WithAttributes(attribute.Int("record.id", id)))
	defer span.End()

	rec, err := transport.Get[W](ctx, p.api, transport.ItemPath(p.path, id))
	if err != nil {
		span.RecordError(err)
		return zero, notFoundOr(err, p.kind, id)
	}
	item, err := p.one(ctx, rec)
	if err != nil {
		span.RecordError(err)
		return zero, err
	}
	p.Cache().Put(item)
	return item, nil
}

// GetOrFetch resolves one record through the superset cache.
func (p *entityProvider[W, T]) GetOrFetch(ctx context.Context, id int) (T, error) {
	return p.refs.GetOrFetch(ctx, id)
}

// GetOrFetchList resolves ids through the superset cache with at most one
// request for the misses.
func (p *entityProvider[W, T]) GetOrFetchList(ctx context.Context, ids []int) ([]T, error) {
	return p.refs.GetOrFetchList(ctx, ids)
}

func (p *entityProvider[W, T]) one(ctx context.Context, rec W) (T, error) {
	var zero T
	items, err := p.hydrate(ctx, []W{rec})
	if err != nil {
		return zero, fmt.Errorf("hydrate %s: %w", p.kind, err)
	}
	return items[0], nil
}

// create posts body and hydrates the created record into the cache.
func (p *entityProvider[W, T]) create(ctx context.Context, localID string, body any) (T, error) {
	var zero T
	ctx, span := p.tracer().Start(ctx, "Create")
	defer span.End()

	rec, err := transport.Post[W](ctx, p.api, p.path, body)
	if err != nil {
		span.RecordError(err)
		return zero, err
	}
	item, err := p.one(ctx, rec)
	if err != nil {
		span.RecordError(err)
		return zero, err
	}
	p.Cache().Put(item)
	span.SetAttributes(attribute.Int("record.id", item.PrimaryKey()))
	log.Ctx(ctx).Debug().Str("kind", p.kind).Str("local_id", localID).Int("id", item.PrimaryKey()).Msg("record created")
	return item, nil
}

// update patches id with body. The hydrated result replaces the record in
// the store page and the superset cache.
func (p *entityProvider[W, T]) update(ctx context.Context, id int, body any) (T, error) {
	var zero T
	if id <= 0 {
		return zero, missingID("update", p.kind)
	}
	ctx, span := p.tracer().Start(ctx, "Update", trace.WithAttributes(attribute.Int("record.id", id)))
	defer span.End()

	rec, err := transport.Patch[W](ctx, p.api, transport.ItemPath(p.path, id), body)
	if err != nil {
		span.RecordError(err)
		return zero, notFoundOr(err, p.kind, id)
	}
	item, err := p.one(ctx, rec)
	if err != nil {
		span.RecordError(err)
		return zero, err
	}
	p.store.UpdateEntry(item)
	p.Cache().Put(item)
	return item, nil
}

// Remove deletes id. It reports whether the backend answered 2xx; any other
// status is a false result, not an error. Network failures propagate.
func (p *entityProvider[W, T]) Remove(ctx context.Context, id int) (bool, error) {
	if id <= 0 {
		return false, missingID("remove", p.kind)
	}
	ctx, span := p.tracer().Start(ctx, "Remove", trace.WithAttributes(attribute.Int("record.id", id)))
	defer span.End()

	status, err := transport.Delete(ctx, p.api, transport.ItemPath(p.path, id))
	if err != nil && status == 0 {
		span.RecordError(err)
		return false, err
	}
	span.SetAttributes(attribute.Int("http.status_code", status))
	if err != nil {
		log.Ctx(ctx).Warn().Str("kind", p.kind).Int("id", id).Int("status", status).Msg("remove rejected")
		return false, nil
	}
	return status >= 200 && status < 300, nil
}
