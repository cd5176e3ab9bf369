// Package middleware holds the Gin middleware stacked in front of the
// catalogue admin API: correlation ids, caller identity, scrubbed access
// logs, panic recovery, metrics, idempotent creates, rate limiting and
// security headers.
//
// Recommended order: RequestID, Identity, Logger, Recovery. Logger reads the
// values the first two store, and Recovery logs through it.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/catalogue-admin/internal/sysutil"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	userIDKey       = "userID"
	loggerKey       = "logger"

	// UserIDHeader names the caller. The admin API sits behind an
	// authenticating proxy that sets it.
	UserIDHeader = "X-User-ID"

	// AnonymousUser is the identity used when no caller header is present.
	AnonymousUser = "anonymous"

	maxQueryLogLength = 2048
)

// RequestID reuses the caller's X-Request-ID or generates a UUIDv4, stores it
// in the Gin context and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Identity records the caller from X-User-ID, falling back to AnonymousUser.
// Idempotency records are scoped by this value.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(userIDKey, sysutil.FirstNonEmpty(c.GetHeader(UserIDHeader), AnonymousUser))
		c.Next()
	}
}

// UserID returns the identity stored by Identity, or AnonymousUser.
func UserID(c *gin.Context) string {
	if s := c.GetString(userIDKey); s != "" {
		return s
	}
	return AnonymousUser
}

// RequestIDFrom returns the correlation id stored by RequestID.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// LoggerOptions configures Logger.
type LoggerOptions struct {
	// MaskHeaders are masked in addition to Authorization and cookies.
	MaskHeaders []string
	// LogHeaders adds the scrubbed request headers to each access line.
	LogHeaders bool
}

// Logger writes one structured access line per request with the query
// string scrubbed. It attaches a request-scoped logger both to the Gin
// context (see LoggerFrom) and to the request context, so code below the
// HTTP layer can use log.Ctx.
func Logger(opts LoggerOptions) gin.HandlerFunc {
	red := NewRedactor(opts.MaskHeaders...)
	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		lc := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("user_id", c.GetString(userIDKey)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Str("query", truncate(red.String(c.Request.URL.RawQuery), maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength)
		if opts.LogHeaders {
			lc = lc.Interface("headers", red.Headers(c.Request.Header))
		}
		l := lc.Logger()

		c.Set(loggerKey, &l)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		ev := l.With().
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", red.String(c.Errors.String())).Msg("request")
		case status >= 500:
			ev.Error().Msg("request")
		case status >= 400:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// Recovery turns a panic into a JSON 500 when nothing has been written yet.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := RequestIDFrom(c)
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, rid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": rid,
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global one when
// Logger is not installed.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// truncate cuts s to max bytes plus an ellipsis; max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
