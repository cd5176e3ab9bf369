package providers

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/resolver"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

// StatusResolver fetches and caches the label tables of every StatusKind.
type StatusResolver struct {
	api transport.API

	mu     sync.RWMutex
	tables map[StatusKind][]domain.RecordStatus
}

// NewStatusResolver returns a resolver with no tables loaded.
func NewStatusResolver(api transport.API) *StatusResolver {
	return &StatusResolver{api: api, tables: make(map[StatusKind][]domain.RecordStatus)}
}

// FetchStatuses loads every page of kind's table, caches it and returns it
// in backend order.
func (r *StatusResolver) FetchStatuses(ctx context.Context, kind StatusKind) ([]domain.RecordStatus, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, kind)
	}
	ctx, span := otel.Tracer("providers/StatusResolver").Start(ctx, "FetchStatuses",
		trace.WithAttributes(attribute.String("status.kind", kind.String())),
	)
	defer span.End()

	env, err := transport.ListAll[domain.RecordStatus](ctx, r.api, kind.Path(), nil)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	table := DedupeStatuses(env.Results)

	r.mu.Lock()
	r.tables[kind] = table
	r.mu.Unlock()

	out := make([]domain.RecordStatus, len(table))
	copy(out, table)
	return out, nil
}

// Statuses returns the cached table for kind, fetching it on first use.
func (r *StatusResolver) Statuses(ctx context.Context, kind StatusKind) ([]domain.RecordStatus, error) {
	r.mu.RLock()
	table, ok := r.tables[kind]
	r.mu.RUnlock()
	if ok {
		return table, nil
	}
	return r.FetchStatuses(ctx, kind)
}

// Resolve maps a code of kind to its status, loading the table if needed.
func (r *StatusResolver) Resolve(ctx context.Context, kind StatusKind, id int) (domain.RecordStatus, error) {
	table, err := r.Statuses(ctx, kind)
	if err != nil {
		return domain.RecordStatus{}, err
	}
	st, err := ResolveStatus(id, table)
	if err != nil {
		return domain.RecordStatus{}, fmt.Errorf("%s: %w", kind, err)
	}
	return st, nil
}

// Reset drops every cached table.
func (r *StatusResolver) Reset() {
	r.mu.Lock()
	r.tables = make(map[StatusKind][]domain.RecordStatus)
	r.mu.Unlock()
}

// ResolveStatus finds id in statuses. An absent id fails with ErrNotFound;
// callers must not substitute a default.
func ResolveStatus(id int, statuses []domain.RecordStatus) (domain.RecordStatus, error) {
	for _, s := range statuses {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.RecordStatus{}, fmt.Errorf("%w: status %d", ErrNotFound, id)
}

// StatusOrSentinel is ResolveStatus for display paths: an absent id yields
// the "Status not found" label instead of an error.
func StatusOrSentinel(id int, statuses []domain.RecordStatus) domain.RecordStatus {
	if s, err := ResolveStatus(id, statuses); err == nil {
		return s
	}
	return domain.RecordStatus{ID: id, Label: domain.StatusNotFoundLabel}
}

// DedupeStatuses collapses statuses assembled from overlapping fetches.
func DedupeStatuses(statuses []domain.RecordStatus) []domain.RecordStatus {
	return resolver.Dedupe(statuses)
}
