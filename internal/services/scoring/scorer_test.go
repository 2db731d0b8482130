package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sentinel/internal/domain/models"
)

var scoreNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func healthyEvent() *models.TokenEvent {
	return &models.TokenEvent{
		Mint:          "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		Name:          "Good Token",
		Symbol:        "GOOD",
		TxType:        "create",
		LiquiditySol:  60,
		Holders:       250,
		DevHoldingPct: 10,
		TopTenPct:     40,
		SocialScore:   50,
		PriceChange:   20,
		Twitter:       "https://x.com/goodtoken",
		CreatedAt:     scoreNow.Add(-2 * time.Minute),
		ReceivedAt:    scoreNow.Add(-2 * time.Minute),
	}
}

func TestScore_HealthyLaunch(t *testing.T) {
	s := NewScorer()
	scored := s.Score(healthyEvent(), scoreNow)

	require.Empty(t, scored.RiskFlags)

	// liq 60 -> 60, vol 60 -> 80, holders 250 -> 60, social 50,
	// momentum 20, recency < 5m -> 100
	assert.Equal(t, 60.0, scored.SubScores.Liquidity)
	assert.Equal(t, 80.0, scored.SubScores.Volume)
	assert.Equal(t, 60.0, scored.SubScores.Holders)
	assert.Equal(t, 100.0, scored.SubScores.Recency)
	assert.Equal(t, 62.0, scored.Score)
}

func TestScore_TopTierLaunch(t *testing.T) {
	e := &models.TokenEvent{
		Mint:         "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		Name:         "Top Token",
		Symbol:       "TOP",
		TxType:       "create",
		LiquiditySol: 600,
		Holders:      1200,
		SocialScore:  90,
		PriceChange:  100,
		Twitter:      "https://x.com/top",
		CreatedAt:    scoreNow.Add(-time.Minute),
		ReceivedAt:   scoreNow.Add(-time.Minute),
	}

	s := NewScorer()
	scored := s.Score(e, scoreNow)

	require.Empty(t, scored.RiskFlags)
	// 100*.25 + 100*.20 + 100*.15 + 90*.20 + 100*.10 + 100*.10
	assert.Equal(t, 98.0, scored.Score)
	assert.GreaterOrEqual(t, scored.Score, 95.0)
}

func TestScore_HeavilyFlaggedClampsToZero(t *testing.T) {
	e := &models.TokenEvent{
		Mint:           "9yLYuh3DX98e08UYKTEqcE6kClifUrB94UaSvKptgBtV",
		Name:           "Real Moon 2.0",
		Symbol:         "MOON",
		TxType:         "create",
		LiquiditySol:   2,
		Holders:        5,
		DevHoldingPct:  60,
		TopTenPct:      90,
		MintAuthority:  true,
		FrozenMetadata: true,
		CreatedAt:      scoreNow.Add(-1 * time.Minute),
		ReceivedAt:     scoreNow.Add(-1 * time.Minute),
	}

	s := NewScorer()
	scored := s.Score(e, scoreNow)

	require.Len(t, scored.RiskFlags, 7)
	assert.Equal(t, 0.0, scored.Score, "penalties push the weighted sum below zero, clamp applies")
}

func TestScore_RoundsToTwoDecimals(t *testing.T) {
	e := &models.TokenEvent{
		Mint:          "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		Name:          "Fraction",
		TxType:        "create",
		LiquiditySol:  20,
		Holders:       50,
		DevHoldingPct: 5,
		SocialScore:   33.3,
		PriceChange:   7.77,
		Twitter:       "https://x.com/fraction",
		CreatedAt:     scoreNow.Add(-30 * time.Minute),
		ReceivedAt:    scoreNow.Add(-30 * time.Minute),
	}

	s := NewScorer()
	scored := s.Score(e, scoreNow)

	// 40*.25 + 60*.20 + 20*.15 + 33.3*.20 + 7.77*.10 + 70*.10 = 39.437
	assert.Equal(t, 39.44, scored.Score)
}

func TestScore_Deterministic(t *testing.T) {
	s := NewScorer()
	e := healthyEvent()

	first := s.Score(e, scoreNow)
	for i := 0; i < 100; i++ {
		got := s.Score(e, scoreNow)
		require.Equal(t, first.Score, got.Score)
		require.Equal(t, first.SubScores, got.SubScores)
		require.Equal(t, first.RiskFlags, got.RiskFlags)
	}
}

func TestScore_SubScoresAlwaysBounded(t *testing.T) {
	s := NewScorer()

	inputs := []float64{-1e9, -5, 0, 4.999, 5, 19.99, 499, 500, 1e9}
	for _, v := range inputs {
		e := healthyEvent()
		e.LiquiditySol = v
		e.SocialScore = v
		e.PriceChange = v

		scored := s.Score(e, scoreNow)
		for name, sub := range map[string]float64{
			"liquidity": scored.SubScores.Liquidity,
			"volume":    scored.SubScores.Volume,
			"holders":   scored.SubScores.Holders,
			"social":    scored.SubScores.Social,
			"momentum":  scored.SubScores.Momentum,
			"recency":   scored.SubScores.Recency,
		} {
			assert.GreaterOrEqual(t, sub, 0.0, "%s for input %v", name, v)
			assert.LessOrEqual(t, sub, 100.0, "%s for input %v", name, v)
		}
		assert.GreaterOrEqual(t, scored.Score, 0.0)
		assert.LessOrEqual(t, scored.Score, 100.0)
	}
}

func TestScore_FlagPenaltyIsMonotonic(t *testing.T) {
	e := healthyEvent()
	e.Twitter = ""
	e.Website = ""
	e.Telegram = ""

	lenient := NewScorer().Score(e, scoreNow)
	strict := NewScorer(WithSocialRequired(true)).Score(e, scoreNow)

	require.NotContains(t, lenient.RiskFlags, FlagNoSocials)
	require.Contains(t, strict.RiskFlags, FlagNoSocials)
	assert.LessOrEqual(t, strict.Score, lenient.Score)
	assert.Equal(t, lenient.Score-10, strict.Score)
}

func TestScore_RecencyTiers(t *testing.T) {
	s := NewScorer()

	cases := []struct {
		age  time.Duration
		want float64
	}{
		{2 * time.Minute, 100},
		{5 * time.Minute, 70},
		{45 * time.Minute, 70},
		{time.Hour, 30},
		{12 * time.Hour, 30},
		{24 * time.Hour, 0},
		{72 * time.Hour, 0},
	}

	for _, tc := range cases {
		e := healthyEvent()
		e.CreatedAt = scoreNow.Add(-tc.age)
		scored := s.Score(e, scoreNow)
		assert.Equal(t, tc.want, scored.SubScores.Recency, "age %v", tc.age)
	}
}

func TestScore_CustomWeightsAndPenalty(t *testing.T) {
	s := NewScorer(
		WithWeights(Weights{Liquidity: 1}),
		WithPenaltyPerFlag(5),
	)

	e := healthyEvent()
	e.MintAuthority = true
	scored := s.Score(e, scoreNow)

	// liq tier 60, one flag at penalty 5
	assert.Equal(t, 55.0, scored.Score)
}
