package providers

import (
	"context"

	"github.com/tbourn/catalogue-admin/internal/cache"
	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/resolver"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

// NewNotification is the create payload of a notification.
type NewNotification struct {
	LocalID        string `json:"-"`
	Name           string `json:"name"`
	Type           int    `json:"type"`
	Email          string `json:"email"`
	Active         bool   `json:"active"`
	CatalogueEntry int    `json:"catalogue_entry"`
}

// SetLocalID tags the payload with a client-side id used in logs.
func (n *NewNotification) SetLocalID(id string) { n.LocalID = id }

// NotificationPatch lists the user-editable fields of a notification.
type NotificationPatch struct {
	Name   *string `json:"name,omitempty"`
	Type   *int    `json:"type,omitempty"`
	Email  *string `json:"email,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// NotificationProvider serves notification subscriptions.
type NotificationProvider struct {
	*entityProvider[domain.NotificationRecord, domain.Notification]

	statuses *StatusResolver
	entries  *CatalogueEntryProvider
}

func NewNotificationProvider(api transport.API, c *cache.Cache[domain.Notification], statuses *StatusResolver, entries *CatalogueEntryProvider, pageSize int) *NotificationProvider {
	p := &NotificationProvider{statuses: statuses, entries: entries}
	p.entityProvider = newEntityProvider[domain.NotificationRecord](KindNotification, pathNotifications, api, NotificationSchema, c, pageSize)
	p.hydrate = p.hydrateAll
	return p
}

func (p *NotificationProvider) hydrateAll(ctx context.Context, recs []domain.NotificationRecord) ([]domain.Notification, error) {
	var (
		types   []domain.RecordStatus
		byEntry map[int]domain.CatalogueEntry
	)
	err := parallel(ctx,
		func(ctx context.Context) (err error) {
			types, err = p.statuses.Statuses(ctx, NotificationType)
			return err
		},
		func(ctx context.Context) error {
			ids := resolver.UniqueIDs(recs, func(r domain.NotificationRecord) []int { return []int{r.CatalogueEntry} })
			entries, err := p.entries.GetOrFetchList(ctx, ids)
			byEntry = resolver.Index(entries)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(recs))
	for _, r := range recs {
		typ, err := ResolveStatus(r.Type, types)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Notification{
			ID:             r.ID,
			Name:           r.Name,
			Type:           typ,
			Email:          r.Email,
			Active:         r.Active,
			CatalogueEntry: byEntry[r.CatalogueEntry].Ref(),
		})
	}
	return out, nil
}

func (in *NewNotification) validate() error {
	if err := requireText("name", in.Name); err != nil {
		return err
	}
	in.Email = NormalizeEmail(in.Email)
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if err := requireID("type", in.Type); err != nil {
		return err
	}
	return requireID("catalogue_entry", in.CatalogueEntry)
}

// Create validates in and creates the notification. The email address is
// normalised before it is sent.
func (p *NotificationProvider) Create(ctx context.Context, in NewNotification) (domain.Notification, error) {
	if err := in.validate(); err != nil {
		return domain.Notification{}, err
	}
	return p.create(ctx, in.LocalID, in)
}

// Update patches the editable fields of notification id.
func (p *NotificationProvider) Update(ctx context.Context, id int, patch NotificationPatch) (domain.Notification, error) {
	if patch.Name != nil {
		if err := requireText("name", *patch.Name); err != nil {
			return domain.Notification{}, err
		}
	}
	if patch.Email != nil {
		email := NormalizeEmail(*patch.Email)
		if err := validateEmail(email); err != nil {
			return domain.Notification{}, err
		}
		patch.Email = &email
	}
	return p.update(ctx, id, patch)
}
