package providers

import (
	"context"

	"github.com/tbourn/catalogue-admin/internal/cache"
	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/resolver"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

// NewLayerSubmission is the create payload of a layer submission.
type NewLayerSubmission struct {
	LocalID        string `json:"-"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	File           string `json:"file"`
	CatalogueEntry int    `json:"catalogue_entry"`
}

// SetLocalID tags the payload with a client-side id used in logs.
func (n *NewLayerSubmission) SetLocalID(id string) { n.LocalID = id }

// LayerSubmissionPatch lists the user-editable fields of a submission.
type LayerSubmissionPatch struct {
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// LayerSubmissionProvider serves layer submissions with their catalogue
// entry reference.
type LayerSubmissionProvider struct {
	*entityProvider[domain.LayerSubmissionRecord, domain.LayerSubmission]

	statuses *StatusResolver
	entries  *CatalogueEntryProvider
}

func NewLayerSubmissionProvider(api transport.API, c *cache.Cache[domain.LayerSubmission], statuses *StatusResolver, entries *CatalogueEntryProvider, pageSize int) *LayerSubmissionProvider {
	p := &LayerSubmissionProvider{statuses: statuses, entries: entries}
	p.entityProvider = newEntityProvider[domain.LayerSubmissionRecord](KindLayerSubmission, pathLayerSubmissions, api, LayerSubmissionSchema, c, pageSize)
	p.hydrate = p.hydrateAll
	return p
}

func (p *LayerSubmissionProvider) hydrateAll(ctx context.Context, recs []domain.LayerSubmissionRecord) ([]domain.LayerSubmission, error) {
	var (
		statuses []domain.RecordStatus
		byEntry  map[int]domain.CatalogueEntry
	)
	err := parallel(ctx,
		func(ctx context.Context) (err error) {
			statuses, err = p.statuses.Statuses(ctx, LayerSubmissionStatus)
			return err
		},
		func(ctx context.Context) error {
			ids := resolver.UniqueIDs(recs, func(r domain.LayerSubmissionRecord) []int { return []int{r.CatalogueEntry} })
			entries, err := p.entries.GetOrFetchList(ctx, ids)
			byEntry = resolver.Index(entries)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LayerSubmission, 0, len(recs))
	for _, r := range recs {
		st, err := ResolveStatus(r.Status, statuses)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.LayerSubmission{
			ID:             r.ID,
			Name:           r.Name,
			Description:    r.Description,
			File:           r.File,
			IsActive:       r.IsActive,
			Status:         st,
			SubmittedAt:    r.SubmittedAt,
			Hash:           r.Hash,
			CatalogueEntry: byEntry[r.CatalogueEntry].Ref(),
		})
	}
	return out, nil
}

// Create validates in and creates the submission.
func (p *LayerSubmissionProvider) Create(ctx context.Context, in NewLayerSubmission) (domain.LayerSubmission, error) {
	if err := requireText("name", in.Name); err != nil {
		return domain.LayerSubmission{}, err
	}
	if err := requireID("catalogue_entry", in.CatalogueEntry); err != nil {
		return domain.LayerSubmission{}, err
	}
	return p.create(ctx, in.LocalID, in)
}

// Update patches the editable fields of submission id.
func (p *LayerSubmissionProvider) Update(ctx context.Context, id int, patch LayerSubmissionPatch) (domain.LayerSubmission, error) {
	return p.update(ctx, id, patch)
}
