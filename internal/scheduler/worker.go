package scheduler

import (
	"context"
	"fmt"

	jobsvc "berhub_backend/internal/jobs/service"
	"berhub_backend/internal/notification"
	"berhub_backend/internal/notification/outbox"
	"berhub_backend/platform/config"
	"berhub_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Worker consumes scheduler tasks: quote expiry sweeps and due outbox
// deliveries.
type Worker struct {
	server        *asynq.Server
	mux           *asynq.ServeMux
	jobs          *jobsvc.Service
	notifications *notification.Module
	sweepCfg      config.SweepConfig
	log           *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sweepCfg config.SweepConfig, jobs *jobsvc.Service, notifications *notification.Module, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:        server,
		mux:           mux,
		jobs:          jobs,
		notifications: notifications,
		sweepCfg:      sweepCfg,
		log:           log,
	}

	mux.HandleFunc(TaskQuoteExpirySweep, w.handleQuoteExpirySweep)
	mux.HandleFunc(TaskNotificationOutboxDue, w.handleNotificationOutboxDue)

	return w, nil
}

func (w *Worker) handleQuoteExpirySweep(ctx context.Context, _ *asynq.Task) error {
	if w.jobs == nil {
		return nil
	}

	_, err := w.jobs.RunExpirySweep(ctx, w.sweepCfg.GetQuoteExpiryThreshold(), w.sweepCfg.GetSweepBatchSize())
	return err
}

func (w *Worker) handleNotificationOutboxDue(ctx context.Context, task *asynq.Task) error {
	if w.notifications == nil {
		return nil
	}

	payload, err := ParseNotificationOutboxDuePayload(task)
	if err != nil {
		return err
	}

	outboxID, err := uuid.Parse(payload.OutboxID)
	if err != nil {
		return err
	}

	rec, err := w.notifications.Outbox().GetByID(ctx, outboxID)
	if err != nil {
		return err
	}

	// A redelivered task for a record that already reached a terminal state
	// is a no-op.
	if rec.Status == outbox.StatusSucceeded || rec.Status == outbox.StatusFailed {
		return nil
	}

	return w.notifications.Deliver(ctx, rec)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
