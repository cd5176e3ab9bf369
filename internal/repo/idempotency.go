package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/catalogue-admin/internal/domain"
)

var (
	// ErrNotFound is returned when no live idempotency record matches.
	ErrNotFound = gorm.ErrRecordNotFound

	// ErrDuplicate indicates that a record already exists for the
	// (user_id, kind, key) tuple.
	ErrDuplicate = errors.New("duplicate")
)

// GetIdempotency returns the non-expired record for (userID, kind, key) or
// ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, kind, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" || strings.TrimSpace(kind) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND key = ? AND expires_at > ?", userID, kind, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// CreateIdempotency stores the record id a create produced. A unique
// violation maps to ErrDuplicate.
func CreateIdempotency(ctx context.Context, db *gorm.DB, userID, kind, key string, recordID, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Key:       key,
		RecordID:  recordID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// PurgeExpiredIdempotency deletes records that expired at or before now and
// returns how many were removed.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}

// IdempotencyStore adapts the record functions to the HTTP idempotency
// middleware. Records live for TTL.
type IdempotencyStore struct {
	DB  *gorm.DB
	TTL time.Duration
}

// Lookup reports the record id stored for (userID, kind, key).
func (s IdempotencyStore) Lookup(ctx context.Context, userID, kind, key string, now time.Time) (int, bool, error) {
	rec, err := GetIdempotency(ctx, s.DB, userID, kind, key, now)
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rec.RecordID, true, nil
}

// Save stores recordID. A concurrent save of the same key is not an error.
func (s IdempotencyStore) Save(ctx context.Context, userID, kind, key string, recordID, status int) error {
	_, err := CreateIdempotency(ctx, s.DB, userID, kind, key, recordID, status, s.TTL)
	if errors.Is(err, ErrDuplicate) {
		return nil
	}
	return err
}
