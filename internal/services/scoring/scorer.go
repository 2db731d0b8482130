package scoring

import (
	"math"
	"strings"
	"time"

	"Sentinel/internal/domain/models"
)

// Weights for the composite score. They sum to 1 so that component scores in
// [0, 100] yield a weighted sum in [0, 100] before penalties.
type Weights struct {
	Liquidity float64
	Volume    float64
	Holders   float64
	Social    float64
	Momentum  float64
	Recency   float64
}

// DefaultWeights favor liquidity and social traction over raw momentum.
var DefaultWeights = Weights{
	Liquidity: 0.25,
	Volume:    0.20,
	Holders:   0.15,
	Social:    0.20,
	Momentum:  0.10,
	Recency:   0.10,
}

// Recency boundaries.
const (
	recencyFresh  = 5 * time.Minute
	recencyRecent = time.Hour
	recencyStale  = 24 * time.Hour
)

// Scorer computes composite scores. Stateless after construction; safe for
// concurrent use.
type Scorer struct {
	weights        Weights
	liquidityTiers []Tier
	volumeTiers    []Tier
	holderTiers    []Tier
	penaltyPerFlag float64
	denylist       []string
	socialRequired bool
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the default component weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithPenaltyPerFlag overrides the per-flag score penalty.
func WithPenaltyPerFlag(p float64) Option {
	return func(s *Scorer) { s.penaltyPerFlag = p }
}

// WithDenylist overrides the copycat name denylist.
func WithDenylist(patterns []string) Option {
	return func(s *Scorer) {
		lowered := make([]string, len(patterns))
		for i, p := range patterns {
			lowered[i] = strings.ToLower(p)
		}
		s.denylist = lowered
	}
}

// WithSocialRequired makes missing social links a risk flag.
func WithSocialRequired(required bool) Option {
	return func(s *Scorer) { s.socialRequired = required }
}

// WithTiers overrides the tier tables. Nil tables keep the defaults.
func WithTiers(liquidity, volume, holders []Tier) Option {
	return func(s *Scorer) {
		if liquidity != nil {
			s.liquidityTiers = liquidity
		}
		if volume != nil {
			s.volumeTiers = volume
		}
		if holders != nil {
			s.holderTiers = holders
		}
	}
}

// NewScorer creates a scorer with default tables and weights.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights:        DefaultWeights,
		liquidityTiers: DefaultLiquidityTiers,
		volumeTiers:    DefaultVolumeTiers,
		holderTiers:    DefaultHolderTiers,
		penaltyPerFlag: 10,
		denylist:       []string{"official", "2.0", "v2", "real", "new", "legit"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates risk flags and computes the composite score for the event.
// Deterministic for a given (event, now) pair; no I/O.
func (s *Scorer) Score(e *models.TokenEvent, now time.Time) *models.ScoredToken {
	flags := s.EvaluateRisk(e)

	sub := models.SubScores{
		Liquidity: tierScore(s.liquidityTiers, e.LiquiditySol),
		Volume:    tierScore(s.volumeTiers, e.LiquiditySol),
		Holders:   tierScore(s.holderTiers, float64(e.Holders)),
		Social:    clamp(e.SocialScore, 0, 100),
		Momentum:  clamp(e.PriceChange, 0, 100),
		Recency:   s.recencyScore(e.Age(now)),
	}

	weighted := sub.Liquidity*s.weights.Liquidity +
		sub.Volume*s.weights.Volume +
		sub.Holders*s.weights.Holders +
		sub.Social*s.weights.Social +
		sub.Momentum*s.weights.Momentum +
		sub.Recency*s.weights.Recency

	score := weighted - s.penaltyPerFlag*float64(len(flags))
	score = clamp(score, 0, 100)
	score = math.Round(score*100) / 100

	return &models.ScoredToken{
		Event:     e,
		Score:     score,
		SubScores: sub,
		RiskFlags: flags,
		ScoredAt:  now,
	}
}

func (s *Scorer) recencyScore(age time.Duration) float64 {
	switch {
	case age < recencyFresh:
		return 100
	case age < recencyRecent:
		return 70
	case age < recencyStale:
		return 30
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
