package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/catalogue-admin/internal/domain"
)

func newIdemDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if migrate {
		if err := AutoMigrate(db); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func seedIdem(t *testing.T, db *gorm.DB, id, key string, expires time.Time) {
	t.Helper()
	rec := &domain.Idempotency{
		ID:        id,
		UserID:    "u1",
		Kind:      "catalogue_entry",
		Key:       key,
		RecordID:  12,
		Status:    201,
		CreatedAt: expires.Add(-time.Hour),
		ExpiresAt: expires,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestGetIdempotency_BlankKeyOrKind(t *testing.T) {
	db := newIdemDB(t, true)
	now := time.Now().UTC()

	if rec, err := GetIdempotency(context.Background(), db, "u1", "catalogue_entry", "  ", now); rec != nil || err != ErrNotFound {
		t.Fatalf("blank key: (%v, %v)", rec, err)
	}
	if rec, err := GetIdempotency(context.Background(), db, "u1", "", "k1", now); rec != nil || err != ErrNotFound {
		t.Fatalf("blank kind: (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredMissingAndLive(t *testing.T) {
	db := newIdemDB(t, true)
	now := time.Now().UTC()
	seedIdem(t, db, "expired", "old", now.Add(-time.Minute))
	seedIdem(t, db, "live", "new", now.Add(time.Hour))
	ctx := context.Background()

	if rec, err := GetIdempotency(ctx, db, "u1", "catalogue_entry", "old", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expired: (%v, %v)", rec, err)
	}
	if rec, err := GetIdempotency(ctx, db, "u1", "catalogue_entry", "nope", now); rec != nil || err != ErrNotFound {
		t.Fatalf("missing: (%v, %v)", rec, err)
	}
	if rec, err := GetIdempotency(ctx, db, "u1", "notification", "new", now); rec != nil || err != ErrNotFound {
		t.Fatalf("other kind: (%v, %v)", rec, err)
	}
	rec, err := GetIdempotency(ctx, db, "u1", "catalogue_entry", "new", now)
	if err != nil || rec.RecordID != 12 || rec.Status != 201 {
		t.Fatalf("live: (%+v, %v)", rec, err)
	}
}

func TestCreateIdempotency_SuccessAndDuplicate(t *testing.T) {
	db := newIdemDB(t, true)
	start := time.Now().UTC()
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u9", "notification", "k9", 33, 201, 90*time.Minute)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || rec.Kind != "notification" || rec.RecordID != 33 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !(rec.ExpiresAt.After(start) && rec.ExpiresAt.Before(start.Add(2*time.Hour))) {
		t.Fatalf("unexpected ExpiresAt: %v", rec.ExpiresAt)
	}

	if _, err := CreateIdempotency(ctx, db, "u9", "notification", "k9", 34, 201, time.Hour); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u9", "publish_entry", "k9", 34, 201, time.Hour); err != nil {
		t.Fatalf("same key, other kind: %v", err)
	}
}

func TestCreateIdempotency_ErrorNoTable(t *testing.T) {
	db := newIdemDB(t, false)
	_, err := CreateIdempotency(context.Background(), db, "u", "k", "key", 1, 201, time.Minute)
	if err == nil || err == ErrDuplicate {
		t.Fatalf("expected non-duplicate error, got %v", err)
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newIdemDB(t, true)
	now := time.Now().UTC()
	seedIdem(t, db, "a", "a", now.Add(-time.Hour))
	seedIdem(t, db, "b", "b", now.Add(-time.Second))
	seedIdem(t, db, "c", "c", now.Add(time.Hour))

	n, err := PurgeExpiredIdempotency(context.Background(), db, now)
	if err != nil || n != 2 {
		t.Fatalf("purged %d, %v", n, err)
	}
	var left int64
	db.Model(&domain.Idempotency{}).Count(&left)
	if left != 1 {
		t.Fatalf("left = %d", left)
	}
}

func TestIdempotencyStore_LookupSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := IdempotencyStore{DB: newIdemDB(t, true), TTL: time.Hour}

	if _, found, err := s.Lookup(ctx, "u1", "/api/v1/notifications", "k1", time.Now()); found || err != nil {
		t.Fatalf("empty store: found=%v err=%v", found, err)
	}
	if err := s.Save(ctx, "u1", "/api/v1/notifications", "k1", 40, 201); err != nil {
		t.Fatalf("save: %v", err)
	}
	// a racing duplicate save is absorbed
	if err := s.Save(ctx, "u1", "/api/v1/notifications", "k1", 41, 201); err != nil {
		t.Fatalf("duplicate save: %v", err)
	}
	id, found, err := s.Lookup(ctx, "u1", "/api/v1/notifications", "k1", time.Now())
	if err != nil || !found || id != 40 {
		t.Fatalf("lookup: id=%d found=%v err=%v", id, found, err)
	}
	if _, found, _ := s.Lookup(ctx, "u1", "/api/v1/notifications", "k1", time.Now().Add(2*time.Hour)); found {
		t.Fatalf("expired record still found")
	}
}

func TestIdempotencyStore_LookupErrorWithoutTable(t *testing.T) {
	s := IdempotencyStore{DB: newIdemDB(t, false), TTL: time.Hour}
	if _, found, err := s.Lookup(context.Background(), "u1", "k", "key", time.Now()); found || err == nil {
		t.Fatalf("expected error, got found=%v err=%v", found, err)
	}
}
