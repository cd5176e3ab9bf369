package providers

import "github.com/tbourn/catalogue-admin/internal/filter"

// Filter schemas per record kind. Every schema also accepts "id".
var (
	CatalogueEntrySchema = filter.NewSchema(KindCatalogueEntry,
		[]string{"name", "status", "updatedAt", "custodian", "assignedTo"},
		filter.Field{Name: "status", Kind: filter.KindInt},
		filter.Field{Name: "custodian", Kind: filter.KindInt},
		filter.Field{Name: "assignedTo", Kind: filter.KindInt},
		filter.Field{Name: "updatedAt", Kind: filter.KindDateRange},
		filter.Field{Name: filter.SearchField, Kind: filter.KindText},
	)

	LayerSubmissionSchema = filter.NewSchema(KindLayerSubmission,
		[]string{"name", "status", "submittedAt", "catalogueEntry"},
		filter.Field{Name: "status", Kind: filter.KindInt},
		filter.Field{Name: "isActive", Kind: filter.KindBool},
		filter.Field{Name: "catalogueEntry", Kind: filter.KindIDs},
		filter.Field{Name: "submittedAt", Kind: filter.KindDateRange},
		filter.Field{Name: filter.SearchField, Kind: filter.KindText},
	)

	LayerSubscriptionSchema = filter.NewSchema(KindLayerSubscription,
		[]string{"name", "status", "type", "updatedAt"},
		filter.Field{Name: "status", Kind: filter.KindInt},
		filter.Field{Name: "type", Kind: filter.KindInt},
		filter.Field{Name: "enabled", Kind: filter.KindBool},
		filter.Field{Name: "catalogueEntry", Kind: filter.KindIDs},
		filter.Field{Name: "updatedAt", Kind: filter.KindDateRange},
		filter.Field{Name: filter.SearchField, Kind: filter.KindText},
	)

	NotificationSchema = filter.NewSchema(KindNotification,
		[]string{"name", "type", "email"},
		filter.Field{Name: "type", Kind: filter.KindInt},
		filter.Field{Name: "active", Kind: filter.KindBool},
		filter.Field{Name: "catalogueEntry", Kind: filter.KindIDs},
		filter.Field{Name: filter.SearchField, Kind: filter.KindText},
	)

	PublishEntrySchema = filter.NewSchema(KindPublishEntry,
		[]string{"name", "status", "updatedAt", "publishedAt"},
		filter.Field{Name: "status", Kind: filter.KindInt},
		filter.Field{Name: "assignedTo", Kind: filter.KindInt},
		filter.Field{Name: "catalogueEntry", Kind: filter.KindIDs},
		filter.Field{Name: "updatedAt", Kind: filter.KindDateRange},
		filter.Field{Name: "publishedAt", Kind: filter.KindDateRange},
		filter.Field{Name: filter.SearchField, Kind: filter.KindText},
	)
)
