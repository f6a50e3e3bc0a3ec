package nutrition

import (
	"fmt"
	"math"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

// Range holds the healthy band and penalty policy for one nutrient.
// Bounds are percent daily values, except calories which stay in kcal.
type Range struct {
	Name             string
	Lower            float64 // bottom of the optimal band
	Upper            float64 // top of the optimal band
	Weight           float64 // share of the weighted base score
	ExtremeThreshold float64 // above this the flat penalty applies
	ExtremePenalty   float64 // points subtracted once the threshold is crossed
}

// Model is a static, immutable per-nutrient range table ordered like
// the nutrition vector. Weight and bound invariants are checked at
// construction so a bad table can never reach the scorer.
type Model struct {
	version string
	ranges  [recipe.NutrientCount]Range
}

// NewModel validates a range table and returns the model.
func NewModel(version string, ranges [recipe.NutrientCount]Range) (*Model, error) {
	sum := 0.0
	for _, r := range ranges {
		if r.Lower < 0 || r.Upper <= r.Lower {
			return nil, fmt.Errorf("range %s: bounds [%g, %g] invalid", r.Name, r.Lower, r.Upper)
		}
		if r.ExtremeThreshold < r.Upper {
			return nil, fmt.Errorf("range %s: extreme threshold %g below upper bound %g", r.Name, r.ExtremeThreshold, r.Upper)
		}
		if r.Weight <= 0 || r.ExtremePenalty < 0 {
			return nil, fmt.Errorf("range %s: weight %g / penalty %g invalid", r.Name, r.Weight, r.ExtremePenalty)
		}
		sum += r.Weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return nil, fmt.Errorf("nutrient weights sum to %g, want 1.0", sum)
	}
	return &Model{version: version, ranges: ranges}, nil
}

// Version identifies the table revision in run summaries.
func (m *Model) Version() string { return m.version }

// Range returns the table entry for one nutrition vector position.
func (m *Model) Range(i int) Range { return m.ranges[i] }

// Ranges returns a copy of the full table.
func (m *Model) Ranges() [recipe.NutrientCount]Range { return m.ranges }

// Default returns the current range table. Bands follow per-meal
// WHO/USDA/AHA/EFSA guidance (assuming roughly three meals a day);
// weights rank nutrients by strength of health-impact evidence, with
// saturated fat highest and carbohydrates lowest.
func Default() *Model {
	m, err := NewModel("v2", [recipe.NutrientCount]Range{
		recipe.Calories:      {Name: "calories", Lower: 150, Upper: 600, Weight: 0.10, ExtremeThreshold: 1000, ExtremePenalty: 5},
		recipe.TotalFat:      {Name: "total_fat", Lower: 6, Upper: 32, Weight: 0.13, ExtremeThreshold: 70, ExtremePenalty: 8},
		recipe.Sugar:         {Name: "sugar", Lower: 0, Upper: 30, Weight: 0.12, ExtremeThreshold: 80, ExtremePenalty: 8},
		recipe.Sodium:        {Name: "sodium", Lower: 0, Upper: 20, Weight: 0.15, ExtremeThreshold: 50, ExtremePenalty: 10},
		recipe.Protein:       {Name: "protein", Lower: 30, Upper: 70, Weight: 0.20, ExtremeThreshold: 150, ExtremePenalty: 10},
		recipe.SaturatedFat:  {Name: "saturated_fat", Lower: 0, Upper: 35, Weight: 0.25, ExtremeThreshold: 100, ExtremePenalty: 15},
		recipe.Carbohydrates: {Name: "carbs", Lower: 7, Upper: 22, Weight: 0.05, ExtremeThreshold: 50, ExtremePenalty: 5},
	})
	if err != nil {
		panic(err) // static table, checked by tests
	}
	return m
}
