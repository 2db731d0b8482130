package middleware

import (
	"encoding/json"
	"time"

	"Sentinel/internal/domain/models"
	"Sentinel/pkg/util"

	"github.com/mr-tron/base58"
)

// Rejection reasons reported to metrics.
const (
	RejectMalformed    = "malformed"
	RejectTxType       = "tx_type"
	RejectMintLength   = "mint_length"
	RejectMintEncoding = "mint_encoding"
	RejectMissingField = "missing_field"
	RejectNegative     = "negative_value"
)

// EventValidator turns raw feed frames into normalized TokenEvents.
type EventValidator struct {
	minMintLen int
	maxMintLen int
}

// NewEventValidator creates a validator with the given mint length bounds.
func NewEventValidator(minMintLen, maxMintLen int) *EventValidator {
	return &EventValidator{minMintLen: minMintLen, maxMintLen: maxMintLen}
}

// rawEvent mirrors the flat JSON shape of the venue's creation frames.
type rawEvent struct {
	TxType    string `json:"txType"`
	Mint      string `json:"mint"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	URI       string `json:"uri"`
	Trader    string `json:"traderPublicKey"`
	Signature string `json:"signature"`
	// pointers distinguish an explicit 0 from an absent field
	MarketCapSol *float64 `json:"marketCapSol"`
	VSolInCurve  *float64 `json:"vSolInBondingCurve"`
	SolAmount    float64  `json:"solAmount"`
	InitialBuy   float64  `json:"initialBuy"`
	PriceChange  float64  `json:"priceChangePercent"`
	Holders      uint32   `json:"holderCount"`
	Timestamp    int64    `json:"timestamp"`
}

// Validate parses and checks one frame. On rejection it returns a nil event
// and the reason; rejected frames are dropped silently apart from metrics.
func (v *EventValidator) Validate(data []byte, source string, now time.Time) (*models.TokenEvent, string) {
	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, RejectMalformed
	}

	// subscription acks and trade frames share the stream
	if raw.TxType != "create" {
		return nil, RejectTxType
	}

	if len(raw.Mint) < v.minMintLen || len(raw.Mint) > v.maxMintLen {
		return nil, RejectMintLength
	}
	if _, err := base58.Decode(raw.Mint); err != nil {
		return nil, RejectMintEncoding
	}

	if raw.MarketCapSol == nil || raw.VSolInCurve == nil {
		return nil, RejectMissingField
	}

	if *raw.MarketCapSol < 0 || raw.SolAmount < 0 || *raw.VSolInCurve < 0 || raw.InitialBuy < 0 {
		return nil, RejectNegative
	}

	createdAt := now
	if raw.Timestamp > 0 {
		ts := raw.Timestamp
		if ts > 1e11 { // ms
			ts /= 1000
		}
		createdAt = time.Unix(ts, 0)
	}

	return &models.TokenEvent{
		Mint:          raw.Mint,
		Name:          util.Sanitize(raw.Name),
		Symbol:        util.Sanitize(raw.Symbol),
		URI:           raw.URI,
		Creator:       raw.Trader,
		Signature:     raw.Signature,
		TxType:        raw.TxType,
		Source:        source,
		LiquiditySol:  *raw.VSolInCurve,
		MarketCapSol:  *raw.MarketCapSol,
		InitialBuySol: raw.SolAmount,
		PriceChange:   raw.PriceChange,
		Holders:       raw.Holders,
		CreatedAt:     createdAt,
		ReceivedAt:    now,
	}, ""
}
