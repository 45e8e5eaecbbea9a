package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"berhub_backend/internal/adapters"
	"berhub_backend/internal/contractors"
	"berhub_backend/internal/email"
	"berhub_backend/internal/events"
	"berhub_backend/internal/jobs"
	"berhub_backend/internal/notification"
	"berhub_backend/internal/scheduler"
	"berhub_backend/platform/config"
	"berhub_backend/platform/db"
	"berhub_backend/platform/logger"
	"berhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	val := validator.New()

	// Worker-side wiring: the sweep runs through the jobs service so expiry
	// publishes the same events and outbox rows as any other transition.
	contractorsModule := contractors.NewModule(pool, val)
	prefsReader := adapters.NewContractorPreferenceReader(contractorsModule.Service())
	jobsModule := jobs.NewModule(pool, prefsReader, eventBus, log, val)

	contactReader := adapters.NewContractorContactReader(contractorsModule.Service())
	notificationModule := notification.NewModule(pool, sender, contactReader, log)
	notificationModule.RegisterHandlers(eventBus)

	outboxDispatcher, err := scheduler.NewNotificationOutboxDispatcher(cfg, pool, log)
	if err != nil {
		log.Error("failed to initialize outbox dispatcher", "error", err)
		panic("failed to initialize outbox dispatcher: " + err.Error())
	}
	defer func() { _ = outboxDispatcher.Close() }()
	go outboxDispatcher.Run(ctx)

	sweepDispatcher, err := scheduler.NewExpirySweepDispatcher(cfg, cfg, log)
	if err != nil {
		log.Error("failed to initialize expiry sweep dispatcher", "error", err)
		panic("failed to initialize expiry sweep dispatcher: " + err.Error())
	}
	defer func() { _ = sweepDispatcher.Close() }()
	go sweepDispatcher.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, cfg, jobsModule.Service(), notificationModule, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
