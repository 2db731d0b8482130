package scoring

import (
	"strings"

	"Sentinel/internal/domain/models"
)

// Risk flags, reported in stable order.
const (
	FlagLowLiquidity       = "low_liquidity"
	FlagLowHolderCount     = "low_holder_count"
	FlagDevConcentration   = "dev_concentration"
	FlagWhaleConcentration = "whale_concentration"
	FlagNoSocials          = "no_socials"
	FlagMintAuthority      = "mint_authority_active"
	FlagFrozenMetadata     = "frozen_metadata"
	FlagCopycatName        = "copycat_name"
)

// Risk thresholds.
const (
	minLiquiditySol = 5.0
	minHolders      = 10
	maxDevPct       = 50.0
	maxTopTenPct    = 80.0
)

// EvaluateRisk returns the risk flags raised by the event. Pure: same event,
// same flags, always in declaration order.
func (s *Scorer) EvaluateRisk(e *models.TokenEvent) []string {
	flags := make([]string, 0, 4)

	if e.LiquiditySol < minLiquiditySol {
		flags = append(flags, FlagLowLiquidity)
	}
	if e.Holders < minHolders {
		flags = append(flags, FlagLowHolderCount)
	}
	if e.DevHoldingPct > maxDevPct {
		flags = append(flags, FlagDevConcentration)
	}
	if e.TopTenPct > maxTopTenPct {
		flags = append(flags, FlagWhaleConcentration)
	}
	if s.socialRequired && !e.HasSocials() {
		flags = append(flags, FlagNoSocials)
	}
	if e.MintAuthority {
		flags = append(flags, FlagMintAuthority)
	}
	if e.FrozenMetadata {
		flags = append(flags, FlagFrozenMetadata)
	}
	if s.isCopycat(e.Name) {
		flags = append(flags, FlagCopycatName)
	}

	return flags
}

// isCopycat checks the token name against the denylist, case-insensitively.
func (s *Scorer) isCopycat(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, pattern := range s.denylist {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
