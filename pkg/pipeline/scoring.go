package pipeline

import (
	"math"

	"github.com/reciperadar/reciperadar/pkg/nutrition"
	"github.com/reciperadar/reciperadar/pkg/recipe"
)

// ScoreStats aggregates data-quality counters from one scoring pass.
type ScoreStats struct {
	Scored        int // recipes with at least one usable nutrient
	Sentinel      int // recipes scored with the neutral fallback
	MissingValues int // individual nutrient values substituted
}

// ScoreRecipes computes the raw composite for every recipe, normalizes
// the batch into display scores, assigns grades and copies the nutrient
// vector into its per-column fields. Normalization is batch-relative:
// the same recipe can land on a different score in a different batch.
func ScoreRecipes(model *nutrition.Model, recipes []recipe.Recipe) ScoreStats {
	var stats ScoreStats

	raw := make([]float64, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		b := model.Score(r.Nutrition)
		r.RawComposite = b.Composite
		raw[i] = b.Composite

		if b.Sentinel {
			stats.Sentinel++
		} else {
			stats.Scored++
		}
		stats.MissingValues += b.Missing

		fillNutrientColumns(r)
	}

	scores := nutrition.Normalize(raw)
	for i := range recipes {
		recipes[i].NutritionScore = scores[i]
		recipes[i].NutritionGrade = nutrition.Grade(scores[i])
	}
	return stats
}

func fillNutrientColumns(r *recipe.Recipe) {
	r.Calories = nanToZero(r.Nutrition[recipe.Calories])
	r.TotalFatPDV = nanToZero(r.Nutrition[recipe.TotalFat])
	r.SugarPDV = nanToZero(r.Nutrition[recipe.Sugar])
	r.SodiumPDV = nanToZero(r.Nutrition[recipe.Sodium])
	r.ProteinPDV = nanToZero(r.Nutrition[recipe.Protein])
	r.SaturatedFatPDV = nanToZero(r.Nutrition[recipe.SaturatedFat])
	r.CarbsPDV = nanToZero(r.Nutrition[recipe.Carbohydrates])
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
