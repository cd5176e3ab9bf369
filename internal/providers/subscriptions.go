package providers

import (
	"context"

	"github.com/tbourn/catalogue-admin/internal/cache"
	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/resolver"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

// NewLayerSubscription is the create payload of a layer subscription.
type NewLayerSubscription struct {
	LocalID        string `json:"-"`
	Name           string `json:"name"`
	URL            string `json:"url"`
	Type           int    `json:"type"`
	Enabled        bool   `json:"enabled"`
	CatalogueEntry *int   `json:"catalogue_entry,omitempty"`
}

// SetLocalID tags the payload with a client-side id used in logs.
func (n *NewLayerSubscription) SetLocalID(id string) { n.LocalID = id }

// LayerSubscriptionPatch lists the user-editable fields of a subscription.
type LayerSubscriptionPatch struct {
	Name    *string `json:"name,omitempty"`
	URL     *string `json:"url,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// LayerSubscriptionProvider serves layer subscriptions. Both the status
// and the type code are resolved.
type LayerSubscriptionProvider struct {
	*entityProvider[domain.LayerSubscriptionRecord, domain.LayerSubscription]

	statuses *StatusResolver
	entries  *CatalogueEntryProvider
}

func NewLayerSubscriptionProvider(api transport.API, c *cache.Cache[domain.LayerSubscription], statuses *StatusResolver, entries *CatalogueEntryProvider, pageSize int) *LayerSubscriptionProvider {
	p := &LayerSubscriptionProvider{statuses: statuses, entries: entries}
	p.entityProvider = newEntityProvider[domain.LayerSubscriptionRecord](KindLayerSubscription, pathLayerSubscriptions, api, LayerSubscriptionSchema, c, pageSize)
	p.hydrate = p.hydrateAll
	return p
}

func (p *LayerSubscriptionProvider) hydrateAll(ctx context.Context, recs []domain.LayerSubscriptionRecord) ([]domain.LayerSubscription, error) {
	var (
		statuses []domain.RecordStatus
		types    []domain.RecordStatus
		byEntry  map[int]domain.CatalogueEntry
	)
	err := parallel(ctx,
		func(ctx context.Context) (err error) {
			statuses, err = p.statuses.Statuses(ctx, LayerSubscriptionStatus)
			return err
		},
		func(ctx context.Context) (err error) {
			types, err = p.statuses.Statuses(ctx, LayerSubscriptionType)
			return err
		},
		func(ctx context.Context) error {
			ids := resolver.UniqueIDs(recs, func(r domain.LayerSubscriptionRecord) []int { return resolver.Opt(r.CatalogueEntry) })
			entries, err := p.entries.GetOrFetchList(ctx, ids)
			byEntry = resolver.Index(entries)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LayerSubscription, 0, len(recs))
	for _, r := range recs {
		st, err := ResolveStatus(r.Status, statuses)
		if err != nil {
			return nil, err
		}
		typ, err := ResolveStatus(r.Type, types)
		if err != nil {
			return nil, err
		}
		sub := domain.LayerSubscription{
			ID:        r.ID,
			Name:      r.Name,
			URL:       r.URL,
			Type:      typ,
			Status:    st,
			Enabled:   r.Enabled,
			UpdatedAt: r.UpdatedAt,
		}
		if r.CatalogueEntry != nil {
			ref := byEntry[*r.CatalogueEntry].Ref()
			sub.CatalogueEntry = &ref
		}
		out = append(out, sub)
	}
	return out, nil
}

// Create validates in and creates the subscription.
func (p *LayerSubscriptionProvider) Create(ctx context.Context, in NewLayerSubscription) (domain.LayerSubscription, error) {
	if err := requireText("name", in.Name); err != nil {
		return domain.LayerSubscription{}, err
	}
	if err := validateURL(in.URL); err != nil {
		return domain.LayerSubscription{}, err
	}
	if err := requireID("type", in.Type); err != nil {
		return domain.LayerSubscription{}, err
	}
	return p.create(ctx, in.LocalID, in)
}

// Update patches the editable fields of subscription id.
func (p *LayerSubscriptionProvider) Update(ctx context.Context, id int, patch LayerSubscriptionPatch) (domain.LayerSubscription, error) {
	if patch.Name != nil {
		if err := requireText("name", *patch.Name); err != nil {
			return domain.LayerSubscription{}, err
		}
	}
	if patch.URL != nil {
		if err := validateURL(*patch.URL); err != nil {
			return domain.LayerSubscription{}, err
		}
	}
	return p.update(ctx, id, patch)
}
