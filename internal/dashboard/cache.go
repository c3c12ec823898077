package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores rendered overviews in Redis per company.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(companyID string) string {
	return "dashboard:overview:" + companyID
}

// Get returns the cached overview for a company, ok=false on miss.
func (c *Cache) Get(ctx context.Context, companyID string) (*Overview, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, c.key(companyID)).Bytes()
	if err != nil {
		return nil, false
	}
	var overview Overview
	if err := json.Unmarshal(data, &overview); err != nil {
		return nil, false
	}
	return &overview, true
}

// Set stores the overview with the configured TTL.
func (c *Cache) Set(ctx context.Context, companyID string, overview *Overview) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(overview)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(companyID), data, c.ttl).Err()
}

// Invalidate drops the cached overview, for example after a registration
// grows the team.
func (c *Cache) Invalidate(ctx context.Context, companyID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, c.key(companyID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
