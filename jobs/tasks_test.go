package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleai/mapleai/internal/events"
)

type flakyDB struct {
	err error
}

func (d *flakyDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if d.err != nil {
		return pgconn.CommandTag{}, d.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestNewTrackEventTask(t *testing.T) {
	event := events.Event{
		ID:         "evt-1",
		Name:       events.EventLogin,
		Properties: map[string]string{"user_id": "user-1"},
		OccurredAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	task, err := NewTrackEventTask(TrackEventPayload{Event: event})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeTrackEvent, task.Type())

	var payload TrackEventPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, event, payload.Event)
}

func TestNewEventsPurgeTaskDefaultsRetention(t *testing.T) {
	task, err := NewEventsPurgeTask(0)
	require.NoError(t, err)
	assert.Equal(t, TaskTypeEventsPurge, task.Type())

	var payload EventsPurgePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, 90, payload.RetainDays)
}

func TestCutoffFor(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC), CutoffFor(30, now))
}

func TestTrackEventJobSkipsBadPayloads(t *testing.T) {
	job := NewTrackEventJob(nil, nil)

	for name, payload := range map[string][]byte{
		"malformed json": []byte("{not json"),
		"missing name":   []byte(`{"event":{"id":"evt-1"}}`),
	} {
		task := asynq.NewTask(TaskTypeTrackEvent, payload)
		err := job.Handle(context.Background(), task)
		assert.ErrorIs(t, err, asynq.SkipRetry, name)
	}
}

func TestTrackEventJobStoreFailureIsRetryable(t *testing.T) {
	db := &flakyDB{err: errors.New("db down")}
	job := NewTrackEventJob(events.NewStore(db, nil), nil)

	task, err := NewTrackEventTask(TrackEventPayload{Event: events.Event{
		ID:   "evt-1",
		Name: events.EventLogin,
	}})
	require.NoError(t, err)

	err = job.Handle(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	// Redelivery after the outage clears must complete.
	db.err = nil
	assert.NoError(t, job.Handle(context.Background(), task))
}

func TestEventsPurgeJobSkipsBadPayload(t *testing.T) {
	job := NewEventsPurgeJob(nil, nil)

	task := asynq.NewTask(TaskTypeEventsPurge, []byte("{not json"))
	err := job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
