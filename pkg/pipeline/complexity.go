package pipeline

import (
	"math"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

// Complexity category cutoffs on the 0-100 index.
const (
	simpleCutoff = 33.0
	mediumCutoff = 66.0
)

// Factor weights for the complexity index.
const (
	stepsWeight       = 0.4
	ingredientsWeight = 0.4
	minutesWeight     = 0.2
)

// ApplyComplexity fills ComplexityIndex and ComplexityCategory for every
// recipe. Each factor is min-max normalized against the whole batch, so
// the index is relative to the dataset, not an absolute scale.
func ApplyComplexity(recipes []recipe.Recipe) {
	if len(recipes) == 0 {
		return
	}

	stepsMin, stepsMax := math.MaxFloat64, -math.MaxFloat64
	ingrMin, ingrMax := math.MaxFloat64, -math.MaxFloat64
	timeMin, timeMax := math.MaxFloat64, -math.MaxFloat64
	for i := range recipes {
		stepsMin = math.Min(stepsMin, float64(recipes[i].NSteps))
		stepsMax = math.Max(stepsMax, float64(recipes[i].NSteps))
		ingrMin = math.Min(ingrMin, float64(recipes[i].NIngredients))
		ingrMax = math.Max(ingrMax, float64(recipes[i].NIngredients))
		timeMin = math.Min(timeMin, float64(recipes[i].Minutes))
		timeMax = math.Max(timeMax, float64(recipes[i].Minutes))
	}

	for i := range recipes {
		r := &recipes[i]
		idx := (minMaxNorm(float64(r.NSteps), stepsMin, stepsMax)*stepsWeight +
			minMaxNorm(float64(r.NIngredients), ingrMin, ingrMax)*ingredientsWeight +
			minMaxNorm(float64(r.Minutes), timeMin, timeMax)*minutesWeight) * 100
		r.ComplexityIndex = round2(idx)
		r.ComplexityCategory = complexityCategory(r.ComplexityIndex)
	}
}

func complexityCategory(index float64) string {
	switch {
	case index <= simpleCutoff:
		return "Simple"
	case index <= mediumCutoff:
		return "Medium"
	default:
		return "Complex"
	}
}

// minMaxNorm maps v into [0, 1]; a constant factor contributes zero.
func minMaxNorm(v, min, max float64) float64 {
	if max-min < 1e-12 {
		return 0
	}
	return (v - min) / (max - min)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
