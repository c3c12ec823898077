package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mapleai/mapleai/internal/events"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeTrackEvent is the task type for persisting a usage event.
	TaskTypeTrackEvent = "events:track"
	// TaskTypeEventsPurge is the task type for the event retention sweep.
	TaskTypeEventsPurge = "events:purge"
)

// TrackEventPayload carries a usage event to the worker.
type TrackEventPayload struct {
	Event events.Event `json:"event"`
}

// NewTrackEventTask constructs an Asynq task for one usage event.
func NewTrackEventTask(payload TrackEventPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeTrackEvent, data), nil
}

// EventsPurgePayload configures the retention sweep.
type EventsPurgePayload struct {
	RetainDays int `json:"retain_days"`
}

// NewEventsPurgeTask constructs the retention sweep task.
func NewEventsPurgeTask(retainDays int) (*asynq.Task, error) {
	if retainDays <= 0 {
		retainDays = 90
	}
	data, err := json.Marshal(EventsPurgePayload{RetainDays: retainDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeEventsPurge, data), nil
}

// CutoffFor converts a retention window to an absolute cutoff.
func CutoffFor(retainDays int, now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, -retainDays)
}
