package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"berhub_backend/internal/adapters"
	"berhub_backend/internal/adapters/storage"
	"berhub_backend/internal/contractors"
	"berhub_backend/internal/email"
	"berhub_backend/internal/events"
	apphttp "berhub_backend/internal/http"
	"berhub_backend/internal/http/router"
	"berhub_backend/internal/jobs"
	"berhub_backend/internal/notification"
	"berhub_backend/internal/scheduler"
	"berhub_backend/migrations"
	"berhub_backend/platform/config"
	"berhub_backend/platform/db"
	"berhub_backend/platform/logger"
	"berhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.Files)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	contractorsModule := contractors.NewModule(pool, val)
	prefsReader := adapters.NewContractorPreferenceReader(contractorsModule.Service())
	jobsModule := jobs.NewModule(pool, prefsReader, eventBus, log, val)
	jobsModule.SetSweepConfig(cfg)

	// Certificate object storage is optional; without it the plain complete
	// endpoint still works, only upload/download are off.
	if cfg.IsMinIOEnabled() {
		certStore, err := storage.NewMinIOStore(cfg)
		if err != nil {
			log.Error("failed to initialize certificate storage", "error", err)
			panic("failed to initialize certificate storage: " + err.Error())
		}
		bucket := cfg.GetMinioBucketCertificates()
		if err := withRetry(ctx, log, "ensure certificates bucket", 5, 2*time.Second, func() error {
			return certStore.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			log.Error("failed to ensure certificates bucket", "error", err, "bucket", bucket)
			panic("failed to ensure certificates bucket: " + err.Error())
		}
		jobsModule.SetCertificateStorage(certStore, bucket)
		log.Info("certificate storage initialized", "bucket", bucket)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; certificate upload/download disabled")
	}

	// Notification module subscribes to domain events (not HTTP-facing).
	// Delivery happens in the scheduler worker; the API side only writes
	// outbox rows.
	contactReader := adapters.NewContractorContactReader(contractorsModule.Service())
	notificationModule := notification.NewModule(pool, sender, contactReader, log)
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			contractorsModule,
			jobsModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// The outbox dispatcher also runs here so queued notifications move even
	// when the scheduler binary is down; ClaimPending keeps the two from
	// claiming the same rows.
	if cfg.GetRedisURL() != "" {
		dispatcher, err := scheduler.NewNotificationOutboxDispatcher(cfg, pool, log)
		if err != nil {
			log.Error("failed to initialize outbox dispatcher", "error", err)
			panic("failed to initialize outbox dispatcher: " + err.Error())
		}
		defer func() { _ = dispatcher.Close() }()
		group.Go(func() error {
			dispatcher.Run(groupCtx)
			return nil
		})
	} else {
		log.Warn("REDIS_URL not configured; outbox dispatch disabled in api binary")
	}

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
