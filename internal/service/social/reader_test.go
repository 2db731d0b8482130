package social

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"Sentinel/pkg/cache"
)

const mint = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func TestScore_MissingKeyIsZero(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()

	r := NewReader(mc, nil)
	assert.Zero(t, r.Score(context.Background(), mint))
}

func TestScore_ReadsAndClamps(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()
	r := NewReader(mc, nil)

	require := func(v float64, want float64) {
		t.Helper()
		_ = mc.Set(ctx, "social:"+mint, v, time.Minute)
		assert.Equal(t, want, r.Score(ctx, mint))
	}

	require(72.5, 72.5)
	require(250, 100)
	require(-10, 0)
}
