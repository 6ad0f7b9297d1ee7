package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/infra/storage"
	"github.com/BruksfildServices01/barber-booking/internal/jobs"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	ucSchedule "github.com/BruksfildServices01/barber-booking/internal/usecase/schedule"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

// run owns every resource so that deferred closes happen on all exit paths.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.AppEnv)
	slog.SetDefault(log)
	httperr.StorePhone = cfg.Store.Phone

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := dbpkg.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	defer auditDispatcher.Close()

	limiter := middleware.NewRateLimiter(cfg.Limits.PublicRPS, cfg.Limits.PublicBurst)
	defer limiter.Close()

	deps := routes.Deps{
		Config:   cfg,
		Log:      log,
		Bookings: infraRepo.NewAppointmentGormRepository(db),
		Catalog:  infraRepo.NewCatalogGormRepository(db),
		Audit:    auditDispatcher,
		Limiter:  limiter,
		Ping: func(ctx context.Context) error {
			return dbpkg.Ping(ctx, db)
		},
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New("barber_booking")
	}

	// Redis is optional; without it every slot request hits Postgres.
	if cfg.Redis.URL != "" {
		client, err := cache.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer client.Close()

		slotCache := cache.NewRedisSlotCache(client, cfg.SlotCacheTTL())
		if err := slotCache.Ping(ctx); err != nil {
			log.Warn("redis unreachable, slot cache disabled", "error", err)
		} else {
			deps.SlotCache = slotCache
		}
	}

	s3Store, err := storage.NewS3Store(cfg.S3)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		log.Info("object storage not configured, avatars and calendar publishing disabled")
	case err != nil:
		return fmt.Errorf("object storage: %w", err)
	default:
		deps.Objects = s3Store
	}

	r := gin.New()
	if err := routes.RegisterRoutes(r, deps); err != nil {
		return err
	}

	if cfg.Calendar.PublishCron != "" && deps.Objects != nil {
		publisher := jobs.NewCalendarPublisher(
			ucSchedule.NewPublishCalendar(routes.ScheduleDeps(deps)),
			cfg.Location(),
			log,
		)
		if err := publisher.Schedule(cfg.Calendar.PublishCron); err != nil {
			return fmt.Errorf("calendar publish schedule %q: %w", cfg.Calendar.PublishCron, err)
		}
		publisher.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			publisher.Stop(stopCtx)
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server running", "addr", cfg.Addr(), "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
