// Package scheduler runs the background side of the marketplace: the quote
// expiry sweep and notification outbox delivery, both as asynq tasks backed
// by Redis. Dispatchers enqueue, the worker executes.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskQuoteExpirySweep = "jobs.quotes.expiry_sweep"

const TaskNotificationOutboxDue = "notification.outbox.due"

type NotificationOutboxDuePayload struct {
	OutboxID string `json:"outboxId"`
}

func NewQuoteExpirySweepTask() *asynq.Task {
	return asynq.NewTask(TaskQuoteExpirySweep, nil)
}

func NewNotificationOutboxDueTask(payload NotificationOutboxDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationOutboxDue, data), nil
}

func ParseNotificationOutboxDuePayload(task *asynq.Task) (NotificationOutboxDuePayload, error) {
	var payload NotificationOutboxDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NotificationOutboxDuePayload{}, err
	}
	return payload, nil
}
