package scheduler

import (
	"context"
	"fmt"
	"time"

	"berhub_backend/platform/config"
	"berhub_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// ExpirySweepDispatcher enqueues a quote expiry sweep task at a fixed
// interval. The sweep itself is idempotent and batch-bounded, so an extra
// tick here is harmless.
type ExpirySweepDispatcher struct {
	client   *asynq.Client
	queue    string
	interval time.Duration
	log      *logger.Logger
}

func NewExpirySweepDispatcher(cfg config.SchedulerConfig, sweepCfg config.SweepConfig, log *logger.Logger) (*ExpirySweepDispatcher, error) {
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

	interval := sweepCfg.GetSweepInterval()
	if interval <= 0 {
		interval = time.Hour
	}

	return &ExpirySweepDispatcher{
		client:   asynq.NewClient(opt),
		queue:    queue,
		interval: interval,
		log:      log,
	}, nil
}

func (d *ExpirySweepDispatcher) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *ExpirySweepDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		_, err := d.client.EnqueueContext(ctx, NewQuoteExpirySweepTask(), asynq.Queue(d.queue))
		if err != nil {
			d.log.Warn("expiry sweep enqueue failed", "error", err)
		}
	}
}
