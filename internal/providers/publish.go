package providers

import (
	"context"
	"encoding/json"

	"github.com/tbourn/catalogue-admin/internal/cache"
	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/resolver"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

// NewPublishEntry is the create payload of a publish entry.
type NewPublishEntry struct {
	LocalID        string `json:"-"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	CatalogueEntry int    `json:"catalogue_entry"`
	AssignedTo     *int   `json:"assigned_to,omitempty"`
	Editors        []int  `json:"editors,omitempty"`
}

// SetLocalID tags the payload with a client-side id used in logs.
func (n *NewPublishEntry) SetLocalID(id string) { n.LocalID = id }

// PublishEntryPatch lists the user-editable fields of a publish entry. A
// null assignee clears it.
type PublishEntryPatch struct {
	Description *string       `json:"description,omitempty"`
	AssignedTo  Nullable[int] `json:"assigned_to"`
	Editors     *[]int        `json:"editors,omitempty"`
}

func (p PublishEntryPatch) MarshalJSON() ([]byte, error) {
	b := patchBody{}
	b.put("description", p.Description != nil, p.Description)
	putNullable(b, "assigned_to", p.AssignedTo)
	b.put("editors", p.Editors != nil, p.Editors)
	return json.Marshal(b)
}

// PublishEntryProvider serves publish entries. Catalogue references and
// users are resolved side by side.
type PublishEntryProvider struct {
	*entityProvider[domain.PublishEntryRecord, domain.PublishEntry]

	statuses *StatusResolver
	entries  *CatalogueEntryProvider
	users    *UserResolver
}

func NewPublishEntryProvider(api transport.API, c *cache.Cache[domain.PublishEntry], statuses *StatusResolver, entries *CatalogueEntryProvider, users *UserResolver, pageSize int) *PublishEntryProvider {
	p := &PublishEntryProvider{statuses: statuses, entries: entries, users: users}
	p.entityProvider = newEntityProvider[domain.PublishEntryRecord](KindPublishEntry, pathPublishEntries, api, PublishEntrySchema, c, pageSize)
	p.hydrate = p.hydrateAll
	return p
}

func (p *PublishEntryProvider) hydrateAll(ctx context.Context, recs []domain.PublishEntryRecord) ([]domain.PublishEntry, error) {
	var (
		statuses []domain.RecordStatus
		byEntry  map[int]domain.CatalogueEntry
		byUser   map[int]domain.User
	)
	err := parallel(ctx,
		func(ctx context.Context) (err error) {
			statuses, err = p.statuses.Statuses(ctx, PublishEntryStatus)
			return err
		},
		func(ctx context.Context) error {
			ids := resolver.UniqueIDs(recs, func(r domain.PublishEntryRecord) []int { return []int{r.CatalogueEntry} })
			entries, err := p.entries.GetOrFetchList(ctx, ids)
			byEntry = resolver.Index(entries)
			return err
		},
		func(ctx context.Context) error {
			ids := resolver.UniqueIDs(recs,
				func(r domain.PublishEntryRecord) []int { return resolver.Opt(r.AssignedTo) },
				func(r domain.PublishEntryRecord) []int { return r.Editors },
			)
			users, err := p.users.GetOrFetchList(ctx, ids)
			byUser = resolver.Index(users)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PublishEntry, 0, len(recs))
	for _, r := range recs {
		st, err := ResolveStatus(r.Status, statuses)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.PublishEntry{
			ID:             r.ID,
			Name:           r.Name,
			Description:    r.Description,
			Status:         st,
			UpdatedAt:      r.UpdatedAt,
			PublishedAt:    r.PublishedAt,
			CatalogueEntry: byEntry[r.CatalogueEntry].Ref(),
			AssignedTo:     userPtr(byUser, r.AssignedTo),
			Editors:        usersOf(byUser, r.Editors),
		})
	}
	return out, nil
}

// Create validates in and creates the publish entry.
func (p *PublishEntryProvider) Create(ctx context.Context, in NewPublishEntry) (domain.PublishEntry, error) {
	if err := requireText("name", in.Name); err != nil {
		return domain.PublishEntry{}, err
	}
	if err := requireID("catalogue_entry", in.CatalogueEntry); err != nil {
		return domain.PublishEntry{}, err
	}
	return p.create(ctx, in.LocalID, in)
}

// Update patches the editable fields of publish entry id.
func (p *PublishEntryProvider) Update(ctx context.Context, id int, patch PublishEntryPatch) (domain.PublishEntry, error) {
	return p.update(ctx, id, patch)
}
