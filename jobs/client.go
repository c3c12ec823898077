package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/mapleai/mapleai/internal/events"
)

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{client: asynq.NewClient(redisOpts), logger: logger}
}

// Track enqueues a usage event. Tracking is fire-and-forget: a failed
// enqueue is logged and never surfaces to the request that produced it.
func (c *Client) Track(ctx context.Context, name string, props map[string]string) {
	if c == nil || c.client == nil || name == "" {
		return
	}
	task, err := NewTrackEventTask(TrackEventPayload{Event: events.Event{
		ID:         uuid.NewString(),
		Name:       name,
		Properties: props,
		OccurredAt: time.Now().UTC(),
	}})
	if err != nil {
		c.logger.Warn("build track task", slog.String("event", name), slog.Any("error", err))
		return
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault)); err != nil {
		c.logger.Warn("enqueue track task", slog.String("event", name), slog.Any("error", err))
	}
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
