package providers

import (
	"context"
	"encoding/json"

	"github.com/tbourn/catalogue-admin/internal/cache"
	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/resolver"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

// NewCatalogueEntry is the create payload of a catalogue entry.
type NewCatalogueEntry struct {
	LocalID     string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Custodian   *int   `json:"custodian,omitempty"`
	AssignedTo  *int   `json:"assigned_to,omitempty"`
	Editors     []int  `json:"editors,omitempty"`
}

// SetLocalID tags the payload with a client-side id used in logs.
func (n *NewCatalogueEntry) SetLocalID(id string) { n.LocalID = id }

// CatalogueEntryPatch lists the user-editable fields of a catalogue entry.
// Nil and unset fields are left untouched; a null custodian or assignee
// clears it.
type CatalogueEntryPatch struct {
	Description *string       `json:"description,omitempty"`
	Custodian   Nullable[int] `json:"custodian"`
	AssignedTo  Nullable[int] `json:"assigned_to"`
	Editors     *[]int        `json:"editors,omitempty"`
}

func (p CatalogueEntryPatch) MarshalJSON() ([]byte, error) {
	b := patchBody{}
	b.put("description", p.Description != nil, p.Description)
	putNullable(b, "custodian", p.Custodian)
	putNullable(b, "assigned_to", p.AssignedTo)
	b.put("editors", p.Editors != nil, p.Editors)
	return json.Marshal(b)
}

// CatalogueEntryProvider serves catalogue entries with embedded users.
type CatalogueEntryProvider struct {
	*entityProvider[domain.CatalogueEntryRecord, domain.CatalogueEntry]

	statuses *StatusResolver
	users    *UserResolver
}

// NewCatalogueEntryProvider wires a provider to its cache and collaborators.
func NewCatalogueEntryProvider(api transport.API, c *cache.Cache[domain.CatalogueEntry], statuses *StatusResolver, users *UserResolver, pageSize int) *CatalogueEntryProvider {
	p := &CatalogueEntryProvider{statuses: statuses, users: users}
	p.entityProvider = newEntityProvider[domain.CatalogueEntryRecord](KindCatalogueEntry, pathCatalogueEntries, api, CatalogueEntrySchema, c, pageSize)
	p.hydrate = p.hydrateAll
	return p
}

func (p *CatalogueEntryProvider) hydrateAll(ctx context.Context, recs []domain.CatalogueEntryRecord) ([]domain.CatalogueEntry, error) {
	var (
		statuses []domain.RecordStatus
		byUser   map[int]domain.User
	)
	err := parallel(ctx,
		func(ctx context.Context) (err error) {
			statuses, err = p.statuses.Statuses(ctx, CatalogueEntryStatus)
			return err
		},
		func(ctx context.Context) error {
			ids := resolver.UniqueIDs(recs,
				func(r domain.CatalogueEntryRecord) []int { return resolver.Opt(r.Custodian) },
				func(r domain.CatalogueEntryRecord) []int { return resolver.Opt(r.AssignedTo) },
				func(r domain.CatalogueEntryRecord) []int { return r.Editors },
			)
			users, err := p.users.GetOrFetchList(ctx, ids)
			byUser = resolver.Index(users)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CatalogueEntry, 0, len(recs))
	for _, r := range recs {
		st, err := ResolveStatus(r.Status, statuses)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CatalogueEntry{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Status:      st,
			UpdatedAt:   r.UpdatedAt,
			Custodian:   userPtr(byUser, r.Custodian),
			AssignedTo:  userPtr(byUser, r.AssignedTo),
			Editors:     usersOf(byUser, r.Editors),
			Attributes:  append([]int(nil), r.Attributes...),
		})
	}
	return out, nil
}

// Create validates in and creates the entry. LocalID is never sent.
func (p *CatalogueEntryProvider) Create(ctx context.Context, in NewCatalogueEntry) (domain.CatalogueEntry, error) {
	if err := requireText("name", in.Name); err != nil {
		return domain.CatalogueEntry{}, err
	}
	return p.create(ctx, in.LocalID, in)
}

// Update patches the editable fields of entry id.
func (p *CatalogueEntryProvider) Update(ctx context.Context, id int, patch CatalogueEntryPatch) (domain.CatalogueEntry, error) {
	return p.update(ctx, id, patch)
}
