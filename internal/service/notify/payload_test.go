package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"Sentinel/internal/domain/models"
)

func sampleToken() *models.ScoredToken {
	return &models.ScoredToken{
		Event: &models.TokenEvent{
			Mint:         "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
			Name:         "Sample",
			Symbol:       "SMPL",
			LiquiditySol: 42.5,
			MarketCapSol: 120,
			Holders:      300,
		},
		Score:    88.25,
		ScoredAt: time.Now().UTC(),
	}
}

func TestScoreEmoji(t *testing.T) {
	assert.Equal(t, "✅", scoreEmoji(70))
	assert.Equal(t, "🔥", scoreEmoji(85))
	assert.Equal(t, "🚨", scoreEmoji(95))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "🔥 Sample ($SMPL) scored 88.25", title(sampleToken()))
}

func TestRiskLine(t *testing.T) {
	s := sampleToken()
	assert.Equal(t, "no risk flags", riskLine(s))

	s.RiskFlags = []string{"low_liquidity", "no_socials"}
	assert.Equal(t, "low_liquidity, no_socials", riskLine(s))
}

func TestLinks(t *testing.T) {
	pump, dex := links(sampleToken())
	assert.Equal(t, "https://pump.fun/coin/7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", pump)
	assert.Equal(t, "https://dexscreener.com/solana/7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", dex)
}
