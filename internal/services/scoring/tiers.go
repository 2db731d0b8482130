package scoring

// Tier maps a minimum input value to a component score. Tables are ordered
// by descending Min and must end with a Min of 0 so that every non-negative
// input lands in exactly one tier.
type Tier struct {
	Min   float64 `yaml:"min"`
	Score float64 `yaml:"score"`
}

var (
	// DefaultLiquidityTiers scores SOL held in the bonding curve.
	DefaultLiquidityTiers = []Tier{
		{Min: 500, Score: 100},
		{Min: 100, Score: 80},
		{Min: 50, Score: 60},
		{Min: 20, Score: 40},
		{Min: 5, Score: 20},
		{Min: 0, Score: 5},
	}

	// DefaultVolumeTiers scores early trading activity in SOL.
	DefaultVolumeTiers = []Tier{
		{Min: 100, Score: 100},
		{Min: 50, Score: 80},
		{Min: 20, Score: 60},
		{Min: 10, Score: 40},
		{Min: 5, Score: 20},
		{Min: 0, Score: 10},
	}

	// DefaultHolderTiers scores the holder count.
	DefaultHolderTiers = []Tier{
		{Min: 1000, Score: 100},
		{Min: 500, Score: 80},
		{Min: 200, Score: 60},
		{Min: 100, Score: 40},
		{Min: 50, Score: 20},
		{Min: 0, Score: 5},
	}
)

// tierScore returns the score of the first tier whose Min is <= v.
// Negative inputs are treated as 0.
func tierScore(tiers []Tier, v float64) float64 {
	if v < 0 {
		v = 0
	}
	for _, t := range tiers {
		if v >= t.Min {
			return t.Score
		}
	}
	return 0
}
