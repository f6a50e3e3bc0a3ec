package nutrition

import (
	"math"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

const (
	// NeutralSubScore substitutes a missing or invalid nutrient value
	// so that one absent nutrient does not sink an otherwise healthy
	// recipe.
	NeutralSubScore = 5.0

	// SentinelComposite is assigned when the whole nutrition vector is
	// missing. The recipe keeps a defined mid-scale composite instead
	// of failing the run.
	SentinelComposite = 50.0

	// MaxBalanceBonus caps the reward for multiple nutrients sitting
	// in their optimal bands at once.
	MaxBalanceBonus = 10.0

	// MaxExtremePenalty caps the summed flat penalties.
	MaxExtremePenalty = 30.0

	maxComposite = 100.0
)

// SubScore maps one nutrient value onto [0, 10] given its range entry.
// Values inside the optimal band score 10. Outside, the score decays
// linearly with distance from the nearest bound, reaching 0 at twice
// the band width beyond the upper bound, or at zero for values below a
// positive lower bound. Missing (NaN) and negative values substitute
// the neutral sub-score.
func SubScore(v float64, r Range) float64 {
	if math.IsNaN(v) || v < 0 {
		return NeutralSubScore
	}
	if v >= r.Lower && v <= r.Upper {
		return 10
	}
	if v < r.Lower {
		// Lower > 0 here, since v >= 0.
		return 10 * v / r.Lower
	}
	falloff := 2 * (r.Upper - r.Lower)
	s := 10 * (1 - (v-r.Upper)/falloff)
	return math.Max(0, s)
}

// Breakdown is the raw health-score decomposition for one recipe.
// Composite is clamped to [0, 100] and feeds dataset-wide
// normalization afterwards.
type Breakdown struct {
	SubScores [recipe.NutrientCount]float64
	Base      float64 // weighted sub-score sum scaled to 0-100
	Bonus     float64 // balance bonus, 0-10
	Penalty   float64 // summed extreme penalties, 0-30
	Composite float64
	Missing   int  // values substituted with the neutral sub-score
	Sentinel  bool // vector fully missing, composite is the sentinel
}

// Score computes the balanced health score for one nutrition vector.
func (m *Model) Score(n recipe.Nutrients) Breakdown {
	if n.FullyMissing() {
		return Breakdown{
			Composite: SentinelComposite,
			Missing:   recipe.NutrientCount,
			Sentinel:  true,
		}
	}

	var b Breakdown
	inOptimal := 0
	for i, v := range n {
		r := m.ranges[i]
		s := SubScore(v, r)
		b.SubScores[i] = s
		b.Base += s * r.Weight

		if math.IsNaN(v) || v < 0 {
			b.Missing++
			continue
		}
		if v >= r.Lower && v <= r.Upper {
			inOptimal++
		}
		if v > r.ExtremeThreshold {
			b.Penalty += r.ExtremePenalty
		}
	}
	b.Base *= 10

	b.Bonus = math.Min(float64(inOptimal)*2, MaxBalanceBonus)
	b.Penalty = math.Min(b.Penalty, MaxExtremePenalty)

	b.Composite = b.Base + b.Bonus - b.Penalty
	b.Composite = math.Max(0, math.Min(b.Composite, maxComposite))
	return b
}
