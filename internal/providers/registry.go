package providers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/catalogue-admin/internal/cache"
	"github.com/tbourn/catalogue-admin/internal/domain"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

// DefaultPageSize is the store page size used when none is configured.
const DefaultPageSize = 25

// Registry owns one process-wide instance of every cache, resolver,
// provider and store. Providers referencing another kind share that kind's
// cache through the registry.
type Registry struct {
	Statuses *StatusResolver
	Users    *UserResolver

	CatalogueEntries   *CatalogueEntryProvider
	LayerSubmissions   *LayerSubmissionProvider
	LayerSubscriptions *LayerSubscriptionProvider
	Notifications      *NotificationProvider
	PublishEntries     *PublishEntryProvider

	resets []func()
}

// NewRegistry builds the provider graph over api. A non-positive pageSize
// selects DefaultPageSize.
func NewRegistry(api transport.API, pageSize int) *Registry {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	userCache := cache.New[domain.User]()
	entryCache := cache.New[domain.CatalogueEntry]()
	submissionCache := cache.New[domain.LayerSubmission]()
	subscriptionCache := cache.New[domain.LayerSubscription]()
	notificationCache := cache.New[domain.Notification]()
	publishCache := cache.New[domain.PublishEntry]()

	r := &Registry{
		Statuses: NewStatusResolver(api),
		Users:    NewUserResolver(api, userCache),
	}
	r.CatalogueEntries = NewCatalogueEntryProvider(api, entryCache, r.Statuses, r.Users, pageSize)
	r.LayerSubmissions = NewLayerSubmissionProvider(api, submissionCache, r.Statuses, r.CatalogueEntries, pageSize)
	r.LayerSubscriptions = NewLayerSubscriptionProvider(api, subscriptionCache, r.Statuses, r.CatalogueEntries, pageSize)
	r.Notifications = NewNotificationProvider(api, notificationCache, r.Statuses, r.CatalogueEntries, pageSize)
	r.PublishEntries = NewPublishEntryProvider(api, publishCache, r.Statuses, r.CatalogueEntries, r.Users, pageSize)

	r.resets = []func(){
		r.Statuses.Reset,
		userCache.Reset,
		entryCache.Reset,
		submissionCache.Reset,
		subscriptionCache.Reset,
		notificationCache.Reset,
		publishCache.Reset,
		r.CatalogueEntries.Store().Reset,
		r.LayerSubmissions.Store().Reset,
		r.LayerSubscriptions.Store().Reset,
		r.Notifications.Store().Reset,
		r.PublishEntries.Store().Reset,
	}
	return r
}

// Init fetches every status table concurrently. Hydration before Init
// completes still works; tables are then loaded on first use.
func (r *Registry) Init(ctx context.Context) error {
	start := time.Now()
	kinds := StatusKinds()
	tasks := make([]func(context.Context) error, len(kinds))
	for i, k := range kinds {
		tasks[i] = func(ctx context.Context) error {
			_, err := r.Statuses.FetchStatuses(ctx, k)
			return err
		}
	}
	if err := parallel(ctx, tasks...); err != nil {
		return err
	}
	log.Info().Int("tables", len(kinds)).Dur("took", time.Since(start)).Msg("status tables loaded")
	return nil
}

// Reset empties every cache, status table and store.
func (r *Registry) Reset() {
	for _, fn := range r.resets {
		fn()
	}
}
