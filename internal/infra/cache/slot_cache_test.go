package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

var _ ucAppointment.SlotCache = (*RedisSlotCache)(nil)

func TestKeysAreScopedPerBarber(t *testing.T) {
	id := uuid.MustParse("6f1c4a58-8e9f-4f7e-9a52-4a3c4b2f0d11")
	date := timezone.Date{Year: 2025, Month: time.March, Day: 10}

	assert.Equal(t, "slots:6f1c4a58-8e9f-4f7e-9a52-4a3c4b2f0d11:gen", genKey(id))
	assert.Equal(t, "slots:6f1c4a58-8e9f-4f7e-9a52-4a3c4b2f0d11:3:2025-03-10:45", listKey(id, 3, date, 45))
}

func newMiniCache(t *testing.T, ttl time.Duration) (*RedisSlotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSlotCache(client, ttl), mr
}

var monday = timezone.Date{Year: 2025, Month: time.March, Day: 10}

func TestSlotCacheRoundTrip(t *testing.T) {
	c, _ := newMiniCache(t, time.Minute)
	ctx := context.Background()
	id := uuid.New()
	slots := []time.Time{
		time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
	}

	gen, err := c.Generation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	_, hit, err := c.Get(ctx, id, gen, monday, 30)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, id, gen, monday, 30, slots))

	got, hit, err := c.Get(ctx, id, gen, monday, 30)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, slots, got)

	_, hit, err = c.Get(ctx, id, gen, monday, 60)
	require.NoError(t, err)
	assert.False(t, hit, "durations are cached separately")
}

func TestSlotCacheEmptyListIsAHit(t *testing.T) {
	c, _ := newMiniCache(t, time.Minute)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, c.Set(ctx, id, 0, monday, 30, []time.Time{}))
	got, hit, err := c.Get(ctx, id, 0, monday, 30)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Empty(t, got)
}

func TestInvalidateMovesToNewGeneration(t *testing.T) {
	c, _ := newMiniCache(t, time.Minute)
	ctx := context.Background()
	id, other := uuid.New(), uuid.New()
	stale := []time.Time{time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)}

	require.NoError(t, c.Set(ctx, other, 0, monday, 30, stale))

	// A reader takes the generation, a booking lands and invalidates, then
	// the reader stores what it computed from the older data.
	gen, err := c.Generation(ctx, id)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, id))
	require.NoError(t, c.Set(ctx, id, gen, monday, 30, stale))

	next, err := c.Generation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)

	_, hit, err := c.Get(ctx, id, next, monday, 30)
	require.NoError(t, err)
	assert.False(t, hit)

	// Other barbers keep their entries.
	_, hit, err = c.Get(ctx, other, 0, monday, 30)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestEntriesExpireIndependently(t *testing.T) {
	c, mr := newMiniCache(t, time.Minute)
	ctx := context.Background()
	id := uuid.New()
	tuesday := monday.AddDays(1)

	require.NoError(t, c.Set(ctx, id, 0, monday, 30, []time.Time{}))
	mr.FastForward(40 * time.Second)

	// Writing another day must not extend the first entry.
	require.NoError(t, c.Set(ctx, id, 0, tuesday, 30, []time.Time{}))
	mr.FastForward(30 * time.Second)

	_, hit, err := c.Get(ctx, id, 0, monday, 30)
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = c.Get(ctx, id, 0, tuesday, 30)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestGetReportsUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisSlotCache(client, time.Minute)
	_, hit, err := c.Get(context.Background(), uuid.New(), 0, timezone.Date{Year: 2025, Month: 1, Day: 2}, 30)

	assert.Error(t, err)
	assert.False(t, hit)
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient("not a url")
	assert.Error(t, err)
}
