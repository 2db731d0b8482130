package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sentinel/pkg/cache"
)

const guardMint = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

type failingCache struct {
	cache.Service
}

func (f *failingCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func TestDeduper_FirstSeenWins(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	d := NewCacheDeduper(mc, 300*time.Second, nil)

	assert.True(t, d.MarkSeen(context.Background(), guardMint))
	assert.False(t, d.MarkSeen(context.Background(), guardMint))
	assert.True(t, d.MarkSeen(context.Background(), "otherMint11111111111111111111111111111111111"))
}

func TestDeduper_WindowExpires(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	d := NewCacheDeduper(mc, 20*time.Millisecond, nil)

	assert.True(t, d.MarkSeen(context.Background(), guardMint))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, d.MarkSeen(context.Background(), guardMint))
}

func TestDeduper_FailsOpen(t *testing.T) {
	d := NewCacheDeduper(&failingCache{}, 300*time.Second, nil)

	// cache down: both calls pass through
	assert.True(t, d.MarkSeen(context.Background(), guardMint))
	assert.True(t, d.MarkSeen(context.Background(), guardMint))
}

func TestDeliveryGuard_Lifecycle(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	g := NewCacheDeliveryGuard(mc, 30*time.Second, time.Hour)
	ctx := context.Background()

	delivered, err := g.AlreadyDelivered(ctx, guardMint)
	require.NoError(t, err)
	assert.False(t, delivered)

	acquired, err := g.AcquireInFlight(ctx, guardMint)
	require.NoError(t, err)
	assert.True(t, acquired)

	// second acquirer loses while the lock is held
	acquired, err = g.AcquireInFlight(ctx, guardMint)
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, g.RecordDelivered(ctx, guardMint))
	require.NoError(t, g.ReleaseInFlight(ctx, guardMint))

	delivered, err = g.AlreadyDelivered(ctx, guardMint)
	require.NoError(t, err)
	assert.True(t, delivered)

	// lock is reacquirable after release, the delivery record remains
	acquired, err = g.AcquireInFlight(ctx, guardMint)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestDeliveryGuard_InFlightTTLExpires(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	g := NewCacheDeliveryGuard(mc, 20*time.Millisecond, time.Hour)
	ctx := context.Background()

	acquired, err := g.AcquireInFlight(ctx, guardMint)
	require.NoError(t, err)
	require.True(t, acquired)

	// a crashed holder's lock expires on its own
	time.Sleep(30 * time.Millisecond)
	acquired, err = g.AcquireInFlight(ctx, guardMint)
	require.NoError(t, err)
	assert.True(t, acquired)
}
