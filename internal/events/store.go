package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// counterKey is the redis hash holding per-event-name counters.
const counterKey = "events:counters"

// DB is the subset of pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store persists usage events and maintains cheap per-name counters in
// redis for the dashboard.
type Store struct {
	db    DB
	redis *redis.Client
}

// NewStore constructs a Store. The redis client may be nil; counters are
// then skipped.
func NewStore(db DB, client *redis.Client) *Store {
	return &Store{db: db, redis: client}
}

// Record inserts the event row and bumps the redis counter. Queue
// deliveries are at-least-once, so the insert tolerates replays of the
// same event id; a counter failure after the insert leaves a retry safe.
func (s *Store) Record(ctx context.Context, event Event) error {
	props, err := json.Marshal(event.Properties)
	if err != nil {
		return fmt.Errorf("events: marshal properties: %w", err)
	}
	at := event.OccurredAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	tag, err := s.db.Exec(ctx,
		`INSERT INTO usage_events (id, name, properties, occurred_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		event.ID, event.Name, props, at)
	if err != nil {
		return fmt.Errorf("events: insert: %w", err)
	}
	// Only first delivery bumps the counter; a replayed event that already
	// counted must not count twice.
	if s.redis != nil && tag.RowsAffected() > 0 {
		if err := s.redis.HIncrBy(ctx, counterKey, event.Name, 1).Err(); err != nil {
			return fmt.Errorf("events: bump counter: %w", err)
		}
	}
	return nil
}

// Counters returns the per-name event counters, zero-valued when redis is
// unavailable.
func (s *Store) Counters(ctx context.Context) (map[string]int64, error) {
	if s.redis == nil {
		return map[string]int64{}, nil
	}
	raw, err := s.redis.HGetAll(ctx, counterKey).Result()
	if err != nil {
		return nil, fmt.Errorf("events: read counters: %w", err)
	}
	counters := make(map[string]int64, len(raw))
	for name, value := range raw {
		var n int64
		if _, err := fmt.Sscanf(value, "%d", &n); err == nil {
			counters[name] = n
		}
	}
	return counters, nil
}

// Purge deletes events older than the cutoff and returns how many rows went.
func (s *Store) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM usage_events WHERE occurred_at < $1`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("events: purge: %w", err)
	}
	return tag.RowsAffected(), nil
}
