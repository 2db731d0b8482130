package notify

import (
	"fmt"
	"strings"

	"Sentinel/internal/domain/models"
	"Sentinel/pkg/util"
)

const (
	pumpFunURL     = "https://pump.fun/coin/%s"
	dexScreenerURL = "https://dexscreener.com/solana/%s"
)

func scoreEmoji(score float64) string {
	switch {
	case score >= 95:
		return "🚨"
	case score >= 85:
		return "🔥"
	default:
		return "✅"
	}
}

func title(s *models.ScoredToken) string {
	name := util.Truncate(s.Event.Name, 48)
	return fmt.Sprintf("%s %s ($%s) scored %.2f", scoreEmoji(s.Score), name, s.Event.Symbol, s.Score)
}

func riskLine(s *models.ScoredToken) string {
	if len(s.RiskFlags) == 0 {
		return "no risk flags"
	}
	return strings.Join(s.RiskFlags, ", ")
}

func links(s *models.ScoredToken) (pump, dex string) {
	return fmt.Sprintf(pumpFunURL, s.Event.Mint), fmt.Sprintf(dexScreenerURL, s.Event.Mint)
}

func statsLine(s *models.ScoredToken) string {
	return fmt.Sprintf("liq %.2f SOL | mcap %.2f SOL | holders %d",
		s.Event.LiquiditySol, s.Event.MarketCapSol, s.Event.Holders)
}
