package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMint = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

var validateNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func validFrame() []byte {
	return []byte(`{
		"txType": "create",
		"mint": "` + testMint + `",
		"name": "Test Token",
		"symbol": "TEST",
		"traderPublicKey": "9yLXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		"signature": "sig123",
		"marketCapSol": 30.5,
		"solAmount": 2.0,
		"vSolInBondingCurve": 42.0,
		"priceChangePercent": 12.5,
		"holderCount": 12,
		"timestamp": 1772366400
	}`)
}

func TestValidate_AcceptsCreationFrame(t *testing.T) {
	v := NewEventValidator(30, 50)

	e, reason := v.Validate(validFrame(), "pumpportal", validateNow)
	require.NotNil(t, e)
	assert.Empty(t, reason)

	assert.Equal(t, testMint, e.Mint)
	assert.Equal(t, "Test Token", e.Name)
	assert.Equal(t, "TEST", e.Symbol)
	assert.Equal(t, "pumpportal", e.Source)
	assert.Equal(t, 42.0, e.LiquiditySol)
	assert.Equal(t, 30.5, e.MarketCapSol)
	assert.Equal(t, 2.0, e.InitialBuySol)
	assert.Equal(t, 12.5, e.PriceChange)
	assert.Equal(t, uint32(12), e.Holders)
	assert.Equal(t, validateNow, e.ReceivedAt)
}

func TestValidate_RejectsMalformedJSON(t *testing.T) {
	v := NewEventValidator(30, 50)

	e, reason := v.Validate([]byte(`{not json`), "pumpportal", validateNow)
	assert.Nil(t, e)
	assert.Equal(t, RejectMalformed, reason)
}

func TestValidate_RejectsNonCreateFrames(t *testing.T) {
	v := NewEventValidator(30, 50)

	// subscription ack
	e, reason := v.Validate([]byte(`{"message":"Successfully subscribed"}`), "pumpportal", validateNow)
	assert.Nil(t, e)
	assert.Equal(t, RejectTxType, reason)

	// trade frame
	e, reason = v.Validate([]byte(`{"txType":"buy","mint":"`+testMint+`"}`), "pumpportal", validateNow)
	assert.Nil(t, e)
	assert.Equal(t, RejectTxType, reason)
}

func TestValidate_RejectsBadMints(t *testing.T) {
	v := NewEventValidator(30, 50)

	e, reason := v.Validate([]byte(`{"txType":"create","mint":"tooshort"}`), "pumpportal", validateNow)
	assert.Nil(t, e)
	assert.Equal(t, RejectMintLength, reason)

	// 0, O, I, l are not base58
	e, reason = v.Validate([]byte(`{"txType":"create","mint":"0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl"}`), "pumpportal", validateNow)
	assert.Nil(t, e)
	assert.Equal(t, RejectMintEncoding, reason)
}

func TestValidate_RejectsMissingRequiredNumerics(t *testing.T) {
	v := NewEventValidator(30, 50)

	// no numerics at all
	e, reason := v.Validate([]byte(`{"txType":"create","mint":"`+testMint+`","name":"X","symbol":"X"}`), "pumpportal", validateNow)
	assert.Nil(t, e)
	assert.Equal(t, RejectMissingField, reason)

	// liquidity present, market cap absent
	e, reason = v.Validate([]byte(`{"txType":"create","mint":"`+testMint+`","vSolInBondingCurve":42}`), "pumpportal", validateNow)
	assert.Nil(t, e)
	assert.Equal(t, RejectMissingField, reason)

	// explicit zeros are legal values
	e, reason = v.Validate([]byte(`{"txType":"create","mint":"`+testMint+`","marketCapSol":0,"vSolInBondingCurve":0}`), "pumpportal", validateNow)
	require.NotNil(t, e)
	assert.Empty(t, reason)
	assert.Zero(t, e.MarketCapSol)
	assert.Zero(t, e.LiquiditySol)
}

func TestValidate_RejectsNegativeNumerics(t *testing.T) {
	v := NewEventValidator(30, 50)

	e, reason := v.Validate([]byte(`{"txType":"create","mint":"`+testMint+`","marketCapSol":-1,"vSolInBondingCurve":1}`), "pumpportal", validateNow)
	assert.Nil(t, e)
	assert.Equal(t, RejectNegative, reason)
}

func TestValidate_NormalizesTimestamps(t *testing.T) {
	v := NewEventValidator(30, 50)

	// millisecond precision
	e, _ := v.Validate([]byte(`{"txType":"create","mint":"`+testMint+`","marketCapSol":1,"vSolInBondingCurve":1,"timestamp":1772366400000}`), "pumpportal", validateNow)
	require.NotNil(t, e)
	assert.Equal(t, int64(1772366400), e.CreatedAt.Unix())

	// missing timestamp falls back to receipt time
	e, _ = v.Validate([]byte(`{"txType":"create","mint":"`+testMint+`","marketCapSol":1,"vSolInBondingCurve":1}`), "pumpportal", validateNow)
	require.NotNil(t, e)
	assert.Equal(t, validateNow, e.CreatedAt)
}

func TestValidate_SanitizesNames(t *testing.T) {
	v := NewEventValidator(30, 50)

	e, _ := v.Validate([]byte(`{"txType":"create","mint":"`+testMint+`","marketCapSol":1,"vSolInBondingCurve":1,"name":"Ev[il]*Token","symbol":"E*V"}`), "pumpportal", validateNow)
	require.NotNil(t, e)
	assert.Equal(t, "EvilToken", e.Name)
	assert.Equal(t, "EV", e.Symbol)
}
