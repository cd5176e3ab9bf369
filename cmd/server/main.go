// Command server runs the catalogue admin API.
//
// @title           Catalogue Admin API
// @version         1.0
// @description     Hydrated records, reference resolution and list views over the catalogue and publishing API.
// @BasePath        /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	_ "github.com/tbourn/catalogue-admin/docs"
	"github.com/tbourn/catalogue-admin/internal/config"
	httpapi "github.com/tbourn/catalogue-admin/internal/http"
	"github.com/tbourn/catalogue-admin/internal/observability"
	"github.com/tbourn/catalogue-admin/internal/providers"
	"github.com/tbourn/catalogue-admin/internal/repo"
	"github.com/tbourn/catalogue-admin/internal/sysutil"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

var version = "dev"

const (
	initTimeout     = 30 * time.Second
	shutdownTimeout = 15 * time.Second
	purgeInterval   = 10 * time.Minute
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	sysutil.ConfigureLogger(os.Stderr, cfg.LogPretty, cfg.OTEL.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	client, err := transport.New(transport.Options{
		BaseURL:   cfg.Upstream.BaseURL,
		Token:     cfg.Upstream.Token,
		Timeout:   cfg.Upstream.Timeout,
		RPS:       cfg.Upstream.RPS,
		Burst:     cfg.Upstream.Burst,
		UserAgent: cfg.Upstream.UserAgent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("upstream client")
	}

	reg := providers.NewRegistry(client, cfg.DefaultPageSize)
	ictx, cancel := context.WithTimeout(ctx, initTimeout)
	err = reg.Init(ictx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("load status tables")
	}

	go purgeIdempotency(ctx, db)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, reg, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("upstream", cfg.Upstream.BaseURL).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}

// purgeIdempotency deletes expired idempotency records until ctx ends.
func purgeIdempotency(ctx context.Context, db *gorm.DB) {
	t := time.NewTicker(purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("purged idempotency records")
			}
		}
	}
}
