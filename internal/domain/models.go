// Package domain defines the hydrated domain objects served by the admin
// front end. Foreign keys that arrive as bare integers on the wire (see
// wire.go) are replaced here by embedded objects: statuses become
// RecordStatus pairs, users become User values and catalogue-entry links
// become the minimal EntryRef projection.
package domain

import "time"

// Entity is implemented by every object held in an id-keyed cache.
type Entity interface {
	// PrimaryKey returns the backend id of the record.
	PrimaryKey() int
}

// RecordStatus is a resolved status or type code. The label set is closed
// and specific to the record kind it was fetched for.
type RecordStatus struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// PrimaryKey implements Entity.
func (s RecordStatus) PrimaryKey() int { return s.ID }

// StatusNotFoundLabel is rendered in place of a status that could not be
// resolved. Only display paths may use it; hydration fails instead.
const StatusNotFoundLabel = "Status not found"

// User is an account known to the backend.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
}

// PrimaryKey implements Entity.
func (u User) PrimaryKey() int { return u.ID }

// FullName joins first and last name, falling back to the username.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

// EntryRef is the projection of a catalogue entry embedded by records that
// only need its name.
type EntryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CatalogueEntry is a hydrated catalogue entry.
type CatalogueEntry struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Status      RecordStatus `json:"status"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Custodian   *User        `json:"custodian"`
	AssignedTo  *User        `json:"assigned_to"`
	Editors     []User       `json:"editors"`
	Attributes  []int        `json:"attributes"`
}

// PrimaryKey implements Entity.
func (e CatalogueEntry) PrimaryKey() int { return e.ID }

// Ref returns the minimal projection of e.
func (e CatalogueEntry) Ref() EntryRef { return EntryRef{ID: e.ID, Name: e.Name} }

// LayerSubmission is a hydrated layer submission.
type LayerSubmission struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	File           string       `json:"file"`
	IsActive       bool         `json:"is_active"`
	Status         RecordStatus `json:"status"`
	SubmittedAt    time.Time    `json:"submitted_at"`
	Hash           string       `json:"hash"`
	CatalogueEntry EntryRef     `json:"catalogue_entry"`
}

// PrimaryKey implements Entity.
func (s LayerSubmission) PrimaryKey() int { return s.ID }

// LayerSubscription is a hydrated layer subscription.
type LayerSubscription struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	URL            string       `json:"url"`
	Type           RecordStatus `json:"type"`
	Status         RecordStatus `json:"status"`
	Enabled        bool         `json:"enabled"`
	UpdatedAt      time.Time    `json:"updated_at"`
	CatalogueEntry *EntryRef    `json:"catalogue_entry"`
}

// PrimaryKey implements Entity.
func (s LayerSubscription) PrimaryKey() int { return s.ID }

// Notification is a hydrated e-mail notification attached to an entry.
type Notification struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	Type           RecordStatus `json:"type"`
	Email          string       `json:"email"`
	Active         bool         `json:"active"`
	CatalogueEntry EntryRef     `json:"catalogue_entry"`
}

// PrimaryKey implements Entity.
func (n Notification) PrimaryKey() int { return n.ID }

// PublishEntry is a hydrated publish entry.
type PublishEntry struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Status         RecordStatus `json:"status"`
	UpdatedAt      time.Time    `json:"updated_at"`
	PublishedAt    *time.Time   `json:"published_at"`
	CatalogueEntry EntryRef     `json:"catalogue_entry"`
	AssignedTo     *User        `json:"assigned_to"`
	Editors        []User       `json:"editors"`
}

// PrimaryKey implements Entity.
func (p PublishEntry) PrimaryKey() int { return p.ID }

// Page is one page of hydrated results plus pagination metadata.
// NextOffset is nil on the last page.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	NextOffset *int `json:"next_offset"`
}
