package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Sentinel/internal/domain/models"
)

func cleanEvent() *models.TokenEvent {
	return &models.TokenEvent{
		Mint:          "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		Name:          "Plain Token",
		TxType:        "create",
		LiquiditySol:  50,
		Holders:       100,
		DevHoldingPct: 20,
		TopTenPct:     50,
		Twitter:       "https://x.com/plain",
	}
}

func TestEvaluateRisk_CleanEventRaisesNothing(t *testing.T) {
	flags := NewScorer().EvaluateRisk(cleanEvent())
	assert.Empty(t, flags)
}

func TestEvaluateRisk_IndividualFlags(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.TokenEvent)
		want   string
	}{
		{"low liquidity", func(e *models.TokenEvent) { e.LiquiditySol = 4.99 }, FlagLowLiquidity},
		{"low holders", func(e *models.TokenEvent) { e.Holders = 9 }, FlagLowHolderCount},
		{"dev concentration", func(e *models.TokenEvent) { e.DevHoldingPct = 50.01 }, FlagDevConcentration},
		{"whale concentration", func(e *models.TokenEvent) { e.TopTenPct = 80.01 }, FlagWhaleConcentration},
		{"mint authority", func(e *models.TokenEvent) { e.MintAuthority = true }, FlagMintAuthority},
		{"frozen metadata", func(e *models.TokenEvent) { e.FrozenMetadata = true }, FlagFrozenMetadata},
		{"copycat name", func(e *models.TokenEvent) { e.Name = "Doge OFFICIAL" }, FlagCopycatName},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := cleanEvent()
			tc.mutate(e)
			flags := NewScorer().EvaluateRisk(e)
			assert.Equal(t, []string{tc.want}, flags)
		})
	}
}

func TestEvaluateRisk_BoundariesDoNotFlag(t *testing.T) {
	e := cleanEvent()
	e.LiquiditySol = 5
	e.Holders = 10
	e.DevHoldingPct = 50
	e.TopTenPct = 80

	flags := NewScorer().EvaluateRisk(e)
	assert.Empty(t, flags, "thresholds are strict inequalities")
}

func TestEvaluateRisk_NoSocialsOnlyWhenRequired(t *testing.T) {
	e := cleanEvent()
	e.Twitter = ""

	assert.NotContains(t, NewScorer().EvaluateRisk(e), FlagNoSocials)
	assert.Contains(t, NewScorer(WithSocialRequired(true)).EvaluateRisk(e), FlagNoSocials)

	// any single social link satisfies the check
	e.Website = "https://plain.example"
	assert.NotContains(t, NewScorer(WithSocialRequired(true)).EvaluateRisk(e), FlagNoSocials)
}

func TestEvaluateRisk_CopycatDenylist(t *testing.T) {
	s := NewScorer()

	for _, name := range []string{"PEPE 2.0", "real doge", "NEW moon", "LegitCoin", "official pepe", "token v2"} {
		e := cleanEvent()
		e.Name = name
		assert.Contains(t, s.EvaluateRisk(e), FlagCopycatName, "name %q", name)
	}

	e := cleanEvent()
	e.Name = ""
	assert.Empty(t, s.EvaluateRisk(e))
}

func TestEvaluateRisk_StableOrder(t *testing.T) {
	e := cleanEvent()
	e.LiquiditySol = 1
	e.Holders = 1
	e.MintAuthority = true

	want := []string{FlagLowLiquidity, FlagLowHolderCount, FlagMintAuthority}
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, NewScorer().EvaluateRisk(e))
	}
}
