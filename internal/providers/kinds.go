package providers

import "fmt"

// Record kind names, used as cache labels, metric labels and URL segments.
const (
	KindCatalogueEntry    = "catalogue_entry"
	KindLayerSubmission   = "layer_submission"
	KindLayerSubscription = "layer_subscription"
	KindNotification      = "notification"
	KindPublishEntry      = "publish_entry"
	KindUser              = "user"
)

// Collection endpoints relative to the upstream base URL.
const (
	pathCatalogueEntries   = "catalogue/entries/"
	pathLayerSubmissions   = "catalogue/layers/submissions/"
	pathLayerSubscriptions = "catalogue/layers/subscriptions/"
	pathNotifications      = "catalogue/notifications/"
	pathPublishEntries     = "publish/entries/"
	pathUsers              = "accounts/users/"
)

// StatusKind enumerates the status and type label tables.
type StatusKind int

const (
	CatalogueEntryStatus StatusKind = iota + 1
	LayerSubmissionStatus
	LayerSubscriptionStatus
	LayerSubscriptionType
	NotificationType
	PublishEntryStatus
)

type statusTable struct {
	name string
	path string
}

// statusTables is the one lookup table from variant to endpoint.
var statusTables = map[StatusKind]statusTable{
	CatalogueEntryStatus:    {"catalogue_entry_status", pathCatalogueEntries + "status/"},
	LayerSubmissionStatus:   {"layer_submission_status", pathLayerSubmissions + "status/"},
	LayerSubscriptionStatus: {"layer_subscription_status", pathLayerSubscriptions + "status/"},
	LayerSubscriptionType:   {"layer_subscription_type", pathLayerSubscriptions + "types/"},
	NotificationType:        {"notification_type", pathNotifications + "types/"},
	PublishEntryStatus:      {"publish_entry_status", pathPublishEntries + "status/"},
}

// StatusKinds lists every variant in declaration order.
func StatusKinds() []StatusKind {
	return []StatusKind{
		CatalogueEntryStatus,
		LayerSubmissionStatus,
		LayerSubscriptionStatus,
		LayerSubscriptionType,
		NotificationType,
		PublishEntryStatus,
	}
}

func (k StatusKind) String() string {
	if t, ok := statusTables[k]; ok {
		return t.name
	}
	return fmt.Sprintf("StatusKind(%d)", int(k))
}

// Path returns the endpoint of the table.
func (k StatusKind) Path() string { return statusTables[k].path }

// Valid reports whether k is a declared variant.
func (k StatusKind) Valid() bool {
	_, ok := statusTables[k]
	return ok
}

// ParseStatusKind resolves a table name such as "notification_type".
func ParseStatusKind(name string) (StatusKind, error) {
	for k, t := range statusTables {
		if t.name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown status table %q", ErrInvalidArgument, name)
}
