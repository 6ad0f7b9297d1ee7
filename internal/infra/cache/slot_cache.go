package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// RedisSlotCache stores each slot list under its own key with its own
// expiry. Keys embed a per-barber generation; Invalidate bumps it, which
// orphans every list computed earlier without touching them.
type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration) *RedisSlotCache {
	return &RedisSlotCache{client: client, ttl: ttl}
}

func genKey(barberID uuid.UUID) string {
	return "slots:" + barberID.String() + ":gen"
}

func listKey(barberID uuid.UUID, gen int64, date timezone.Date, durationMinutes int) string {
	return fmt.Sprintf("slots:%s:%d:%s:%d", barberID, gen, date, durationMinutes)
}

// Generation returns the barber's current generation, 0 when never bumped.
func (c *RedisSlotCache) Generation(ctx context.Context, barberID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, genKey(barberID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisSlotCache) Get(
	ctx context.Context,
	barberID uuid.UUID,
	gen int64,
	date timezone.Date,
	durationMinutes int,
) ([]time.Time, bool, error) {

	raw, err := c.client.Get(ctx, listKey(barberID, gen, date, durationMinutes)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var slots []time.Time
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false, err
	}
	return slots, true, nil
}

func (c *RedisSlotCache) Set(
	ctx context.Context,
	barberID uuid.UUID,
	gen int64,
	date timezone.Date,
	durationMinutes int,
	slots []time.Time,
) error {

	raw, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listKey(barberID, gen, date, durationMinutes), raw, c.ttl).Err()
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, barberID uuid.UUID) error {
	return c.client.Incr(ctx, genKey(barberID)).Err()
}

func (c *RedisSlotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
