// Package httpapi wires the Gin engine: middleware, the per-kind record and
// view routes over the provider registry, lookups, health, metrics and
// optional Swagger UI.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/catalogue-admin/docs"
	"github.com/tbourn/catalogue-admin/internal/config"
	"github.com/tbourn/catalogue-admin/internal/http/handlers"
	"github.com/tbourn/catalogue-admin/internal/http/middleware"
	"github.com/tbourn/catalogue-admin/internal/providers"
	"github.com/tbourn/catalogue-admin/internal/repo"
)

// Collection slugs of the record routes.
const (
	RouteCatalogueEntries   = "catalogue-entries"
	RouteLayerSubmissions   = "layer-submissions"
	RouteLayerSubscriptions = "layer-subscriptions"
	RouteNotifications      = "notifications"
	RoutePublishEntries     = "publish-entries"
)

var (
	corsMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization",
		middleware.UserIDHeader, middleware.HeaderIdempotencyKey, handlers.HeaderLocalID}
	corsExpose = []string{"X-Request-ID", "Content-Length", "Location", middleware.HeaderIdempotentReplayed}
)

// RegisterRoutes attaches middleware and every endpoint to r.
//
// Middleware order:
//  1. OpenTelemetry
//  2. RequestID, Identity
//  3. Logger with scrubbing, then Recovery
//  4. Body size limit, gzip
//  5. Metrics
//  6. Idempotency (before the rate limiter, so replays bypass it)
//  7. Rate limiter
//  8. CORS and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, reg *providers.Registry, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID(), middleware.Identity())
	r.Use(middleware.Logger(middleware.LoggerOptions{MaskHeaders: []string{"X-API-Key"}}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var store middleware.IdempotencyStore
	if db != nil {
		store = repo.IdempotencyStore{DB: db, TTL: cfg.IdempotencyTTL}
	}
	r.Use(middleware.Idempotency(middleware.IdempotencyOptions{MaxLen: 200}, store))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := groupWithPrefix(r, cfg.APIBasePath)
	views := api.Group("/views")
	size := cfg.DefaultPageSize

	handlers.NewEntity(reg.CatalogueEntries, size).Mount(api.Group("/"+RouteCatalogueEntries), views.Group("/"+RouteCatalogueEntries))
	handlers.NewEntity(reg.LayerSubmissions, size).Mount(api.Group("/"+RouteLayerSubmissions), views.Group("/"+RouteLayerSubmissions))
	handlers.NewEntity(reg.LayerSubscriptions, size).Mount(api.Group("/"+RouteLayerSubscriptions), views.Group("/"+RouteLayerSubscriptions))
	handlers.NewEntity(reg.Notifications, size).Mount(api.Group("/"+RouteNotifications), views.Group("/"+RouteNotifications))
	handlers.NewEntity(reg.PublishEntries, size).Mount(api.Group("/"+RoutePublishEntries), views.Group("/"+RoutePublishEntries))
	handlers.NewLookups(reg.Statuses, reg.Users, reg.Reset).Mount(api)
}

// corsMiddleware allows every origin when none are configured, otherwise
// echoes allowlisted origins.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	if len(origins) == 0 {
		return []gin.HandlerFunc{
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(cors.Config{
				AllowAllOrigins: true,
				AllowMethods:    corsMethods,
				AllowHeaders:    corsHeaders,
				ExposeHeaders:   corsExpose,
				MaxAge:          12 * time.Hour,
			}),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  corsMethods,
			AllowHeaders:  corsHeaders,
			ExposeHeaders: corsExpose,
			MaxAge:        12 * time.Hour,
		}),
	}
}

// limitBody caps request bodies at maxBytes.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
