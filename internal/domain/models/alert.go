package models

import "time"

// Outcome is the terminal routing result for one scored event.
type Outcome string

const (
	OutcomeBelowThreshold Outcome = "below_threshold"
	OutcomeDeduped        Outcome = "deduped"
	OutcomeInFlight       Outcome = "in_flight"
	OutcomeDelivered      Outcome = "delivered"
	OutcomeFailed         Outcome = "failed"
)

// Alert channels.
const (
	ChannelSlack    = "slack"
	ChannelDiscord  = "discord"
	ChannelTelegram = "telegram"
)

// AlertAttempt records one pass through the alert router.
type AlertAttempt struct {
	Mint      string    `json:"mint"`
	Symbol    string    `json:"symbol"`
	Score     float64   `json:"score"`
	Outcome   Outcome   `json:"outcome"`
	Delivered []string  `json:"delivered,omitempty"` // channels that accepted the alert
	Failed    []string  `json:"failed,omitempty"`    // channels that errored
	At        time.Time `json:"at"`
}
