package domain

import "time"

// Wire records mirror the backend JSON shapes. Foreign keys are bare ids.

// CatalogueEntryRecord is the wire shape of a catalogue entry.
type CatalogueEntryRecord struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      int       `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
	Custodian   *int      `json:"custodian"`
	AssignedTo  *int      `json:"assigned_to"`
	Editors     []int     `json:"editors"`
	Attributes  []int     `json:"attributes"`
}

// LayerSubmissionRecord is the wire shape of a layer submission.
type LayerSubmissionRecord struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	File           string    `json:"file"`
	IsActive       bool      `json:"is_active"`
	Status         int       `json:"status"`
	SubmittedAt    time.Time `json:"submitted_at"`
	Hash           string    `json:"hash"`
	CatalogueEntry int       `json:"catalogue_entry"`
}

// LayerSubscriptionRecord is the wire shape of a layer subscription.
type LayerSubscriptionRecord struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	URL            string    `json:"url"`
	Type           int       `json:"type"`
	Status         int       `json:"status"`
	Enabled        bool      `json:"enabled"`
	UpdatedAt      time.Time `json:"updated_at"`
	CatalogueEntry *int      `json:"catalogue_entry"`
}

// NotificationRecord is the wire shape of a notification.
type NotificationRecord struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Type           int    `json:"type"`
	Email          string `json:"email"`
	Active         bool   `json:"active"`
	CatalogueEntry int    `json:"catalogue_entry"`
}

// PublishEntryRecord is the wire shape of a publish entry.
type PublishEntryRecord struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Status         int        `json:"status"`
	UpdatedAt      time.Time  `json:"updated_at"`
	PublishedAt    *time.Time `json:"published_at"`
	CatalogueEntry int        `json:"catalogue_entry"`
	AssignedTo     *int       `json:"assigned_to"`
	Editors        []int      `json:"editors"`
}
