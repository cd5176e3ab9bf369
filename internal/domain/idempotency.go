// Package domain defines the core persistence models for the application.
// Idempotency is the only type persisted locally; every other record lives in
// the upstream catalogue API and is cached in memory only.
package domain

import "time"

// Idempotency records the backend id produced by a create request, keyed by
// (user_id, kind, key). A replayed POST with the same key returns the
// original record instead of creating a second one.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_kind_key,priority:1"`
	Kind      string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_kind_key,priority:2"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_kind_key,priority:3"`
	RecordID  int       `gorm:"type:INTEGER NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
