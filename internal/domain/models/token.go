package models

import "time"

// TokenEvent is a normalized token creation event. Constructed once by the
// ingest validator; downstream stages never mutate it.
type TokenEvent struct {
	Mint      string `json:"mint"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	URI       string `json:"uri,omitempty"`
	Creator   string `json:"creator,omitempty"`
	Signature string `json:"signature,omitempty"`
	TxType    string `json:"tx_type"`
	Source    string `json:"source"` // "pumpportal" or "kafka_replay"

	LiquiditySol  float64 `json:"liquidity_sol"`
	MarketCapSol  float64 `json:"market_cap_sol"`
	InitialBuySol float64 `json:"initial_buy_sol"`
	PriceChange   float64 `json:"price_change_pct"`
	Holders       uint32  `json:"holders"`
	DevHoldingPct float64 `json:"dev_holding_pct"`
	TopTenPct     float64 `json:"top_ten_pct"`

	MintAuthority  bool `json:"mint_authority"`
	FrozenMetadata bool `json:"frozen_metadata"`

	Twitter  string `json:"twitter,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Website  string `json:"website,omitempty"`

	SocialScore float64 `json:"social_score"`

	CreatedAt  time.Time `json:"created_at"`
	ReceivedAt time.Time `json:"received_at"`
}

// Age returns how long ago the token was created relative to now.
// Falls back to ReceivedAt when the venue did not report a creation time.
func (e *TokenEvent) Age(now time.Time) time.Duration {
	ts := e.CreatedAt
	if ts.IsZero() {
		ts = e.ReceivedAt
	}
	return now.Sub(ts)
}

// HasSocials reports whether at least one social link is present.
func (e *TokenEvent) HasSocials() bool {
	return e.Twitter != "" || e.Telegram != "" || e.Website != ""
}

// SubScores holds the per-dimension component scores, each in [0, 100].
type SubScores struct {
	Liquidity float64 `json:"liquidity"`
	Volume    float64 `json:"volume"`
	Holders   float64 `json:"holders"`
	Social    float64 `json:"social"`
	Momentum  float64 `json:"momentum"`
	Recency   float64 `json:"recency"`
}

// ScoredToken is a TokenEvent with its composite score attached.
type ScoredToken struct {
	Event     *TokenEvent `json:"event"`
	Score     float64     `json:"score"`
	SubScores SubScores   `json:"sub_scores"`
	RiskFlags []string    `json:"risk_flags"`
	ScoredAt  time.Time   `json:"scored_at"`
}

// HasFlag reports whether the given risk flag was raised.
func (s *ScoredToken) HasFlag(flag string) bool {
	for _, f := range s.RiskFlags {
		if f == flag {
			return true
		}
	}
	return false
}
