package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mapleai/mapleai/internal/events"
)

// TrackEventJob persists usage events delivered through the queue.
type TrackEventJob struct {
	store  *events.Store
	logger *slog.Logger
}

// NewTrackEventJob constructs the handler.
func NewTrackEventJob(store *events.Store, logger *slog.Logger) *TrackEventJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackEventJob{store: store, logger: logger}
}

// Handle processes TaskTypeTrackEvent tasks.
func (j *TrackEventJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload TrackEventPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Event.Name == "" {
		return asynq.SkipRetry
	}
	return j.store.Record(ctx, payload.Event)
}

// EventsPurgeJob enforces event retention.
type EventsPurgeJob struct {
	store  *events.Store
	logger *slog.Logger
}

// NewEventsPurgeJob constructs the handler.
func NewEventsPurgeJob(store *events.Store, logger *slog.Logger) *EventsPurgeJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventsPurgeJob{store: store, logger: logger}
}

// Handle processes TaskTypeEventsPurge tasks.
func (j *EventsPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload EventsPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RetainDays <= 0 {
		payload.RetainDays = 90
	}
	removed, err := j.store.Purge(ctx, CutoffFor(payload.RetainDays, time.Now()))
	if err != nil {
		return err
	}
	j.logger.Info("events purge", slog.Int64("removed", removed), slog.Int("retain_days", payload.RetainDays))
	return nil
}
