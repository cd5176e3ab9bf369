package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey carries the client's key for a create request.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplayed is set to "true" on responses served from a
// stored idempotency record.
const HeaderIdempotentReplayed = "Idempotent-Replayed"

const (
	ctxKeyIdemKey     = "idem.key"
	ctxKeyIdemKind    = "idem.kind"
	ctxKeyIdemReplay  = "idem.replay"  // int: record id of the original create
	ctxKeyIdemCreated = "idem.created" // int: record id produced by this request
	ctxKeyRateBypass  = "rate.bypass"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// IdempotencyStore persists the record id produced for (user, kind, key).
// Lookup reports found=false for missing or expired records.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, kind, key string, now time.Time) (recordID int, found bool, err error)
	Save(ctx context.Context, userID, kind, key string, recordID, status int) error
}

// IdempotencyOptions configures Idempotency.
type IdempotencyOptions struct {
	// MaxLen caps the key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts the key alphabet. Nil selects ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// Kind scopes keys per endpoint. Nil uses the registered route.
	Kind func(*gin.Context) string
}

// Idempotency makes keyed POST requests safe to retry. A valid key whose
// record is still live marks the request as a replay (see ReplayOf) and
// exempts it from rate limiting; the handler answers with the original
// record. Otherwise, once the handler has replied 201 and called
// MarkCreated, the produced record id is saved under the key.
//
// Requests without the header, and non-POST requests, pass through. An
// invalid key is rejected with 400. Store failures are logged and never
// block the request.
func Idempotency(opts IdempotencyOptions, store IdempotencyStore) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}
	kindOf := opts.Kind
	if kindOf == nil {
		kindOf = func(c *gin.Context) string { return c.FullPath() }
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": RequestIDFrom(c),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}

		kind := kindOf(c)
		c.Set(ctxKeyIdemKey, key)
		c.Set(ctxKeyIdemKind, kind)
		if store == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		uid := UserID(c)
		id, found, err := store.Lookup(ctx, uid, kind, key, time.Now().UTC())
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Str("kind", kind).Msg("idempotency lookup failed")
		}
		if found {
			c.Set(ctxKeyIdemReplay, id)
			c.Set(ctxKeyRateBypass, true)
			c.Header(HeaderIdempotentReplayed, "true")
			idemReplays.WithLabelValues(kind).Inc()
			c.Next()
			return
		}

		c.Next()

		created, ok := c.Get(ctxKeyIdemCreated)
		recordID, _ := created.(int)
		if !ok || c.Writer.Status() != http.StatusCreated {
			return
		}
		if err := store.Save(ctx, uid, kind, key, recordID, http.StatusCreated); err != nil {
			LoggerFrom(c).Warn().Err(err).Str("kind", kind).Int("record_id", recordID).Msg("idempotency save failed")
		}
	}
}

// IdempotencyKey returns the validated key, if any.
func IdempotencyKey(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemKey)
	return s, s != ""
}

// ReplayOf returns the record id of the original create when the request is
// a replay.
func ReplayOf(c *gin.Context) (int, bool) {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// MarkCreated records the id of the record this request created so that
// Idempotency can store it under the request's key.
func MarkCreated(c *gin.Context, id int) {
	c.Set(ctxKeyIdemCreated, id)
}
