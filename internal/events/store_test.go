package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDB struct {
	execs    []string
	inserted map[string]bool
	err      error
}

func newStubDB() *stubDB {
	return &stubDB{inserted: make(map[string]bool)}
}

// Exec mimics the usage_events primary key: a replayed insert for a known
// id affects zero rows.
func (s *stubDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.execs = append(s.execs, sql)
	if s.err != nil {
		return pgconn.CommandTag{}, s.err
	}
	if len(args) > 0 {
		if id, ok := args[0].(string); ok {
			if s.inserted[id] {
				return pgconn.NewCommandTag("INSERT 0 0"), nil
			}
			s.inserted[id] = true
		}
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRecordInsertsAndCounts(t *testing.T) {
	mr, client := testRedis(t)
	db := newStubDB()
	store := NewStore(db, client)

	event := Event{ID: "evt-1", Name: EventLogin, OccurredAt: time.Now().UTC()}
	require.NoError(t, store.Record(context.Background(), event))

	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], "ON CONFLICT (id) DO NOTHING")
	assert.Equal(t, "1", mr.HGet(counterKey, EventLogin))
}

func TestRecordRetryAfterCounterFailureSucceeds(t *testing.T) {
	mr, client := testRedis(t)
	db := newStubDB()
	store := NewStore(db, client)

	event := Event{ID: "evt-1", Name: EventLogin, OccurredAt: time.Now().UTC()}

	// First delivery: the row lands but the counter bump fails, so the
	// caller sees an error and the queue redelivers.
	mr.SetError("counter down")
	require.Error(t, store.Record(context.Background(), event))

	// Redelivery must succeed: the insert is a no-op on the existing id and
	// the already-failed counter bump is not repeated for it.
	mr.SetError("")
	require.NoError(t, store.Record(context.Background(), event))
	assert.Len(t, db.execs, 2)
	assert.Empty(t, mr.HGet(counterKey, EventLogin))
}

func TestRecordDoesNotDoubleCountReplays(t *testing.T) {
	mr, client := testRedis(t)
	store := NewStore(newStubDB(), client)

	event := Event{ID: "evt-1", Name: EventLogin, OccurredAt: time.Now().UTC()}
	require.NoError(t, store.Record(context.Background(), event))
	require.NoError(t, store.Record(context.Background(), event))
	assert.Equal(t, "1", mr.HGet(counterKey, EventLogin))
}

func TestCountersReadsRedisHash(t *testing.T) {
	mr, client := testRedis(t)
	mr.HSet(counterKey, "user_login", "42")
	mr.HSet(counterKey, "user_registration", "7")
	mr.HSet(counterKey, "broken", "not-a-number")

	store := NewStore(nil, client)
	counters, err := store.Counters(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 42, counters["user_login"])
	assert.EqualValues(t, 7, counters["user_registration"])
	_, ok := counters["broken"]
	assert.False(t, ok)
}

func TestCountersWithoutRedis(t *testing.T) {
	store := NewStore(nil, nil)
	counters, err := store.Counters(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counters)
}
