package recipe

import (
	"math"
	"time"
)

// NutrientCount is the fixed length of the nutrition vector:
// calories, total fat, sugar, sodium, protein, saturated fat, carbohydrates.
const NutrientCount = 7

// Nutrients holds one recipe's nutrition vector. Calories are in kcal,
// every other entry is a percent daily value. Missing or malformed
// values are NaN.
type Nutrients [NutrientCount]float64

// Positions within a Nutrients vector.
const (
	Calories = iota
	TotalFat
	Sugar
	Sodium
	Protein
	SaturatedFat
	Carbohydrates
)

// Missing returns an all-NaN vector, used when the raw nutrition field
// is absent or cannot be parsed.
func Missing() Nutrients {
	var n Nutrients
	for i := range n {
		n[i] = math.NaN()
	}
	return n
}

// FullyMissing reports whether no nutrient carries a usable value.
func (n Nutrients) FullyMissing() bool {
	for _, v := range n {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

// MissingCount returns how many nutrient values are absent.
func (n Nutrients) MissingCount() int {
	count := 0
	for _, v := range n {
		if math.IsNaN(v) {
			count++
		}
	}
	return count
}

// Recipe is the raw input record plus columns added by the pipeline.
type Recipe struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Minutes         int       `json:"minutes" db:"minutes"`
	Submitted       time.Time `json:"submitted" db:"submitted"`
	NSteps          int       `json:"n_steps" db:"n_steps"`
	NIngredients    int       `json:"n_ingredients" db:"n_ingredients"`
	Description     string    `json:"description" db:"description"`
	Ingredients     []string  `json:"ingredients" db:"-"`
	Tags            []string  `json:"tags" db:"-"`
	Steps           []string  `json:"steps" db:"-"`
	Nutrition       Nutrients `json:"-" db:"-"`
	NutritionRaw    string    `json:"-" db:"nutrition"`
	IngredientsJSON string    `json:"-" db:"ingredients"`
	TagsJSON        string    `json:"-" db:"tags"`
	StepsJSON       string    `json:"-" db:"steps"`

	// Columns derived by the pipeline.
	RawComposite       float64 `json:"raw_composite" db:"raw_composite"`
	NutritionScore     float64 `json:"nutrition_score" db:"nutrition_score"`
	NutritionGrade     string  `json:"nutrition_grade" db:"nutrition_grade"`
	Calories           float64 `json:"calories" db:"calories"`
	TotalFatPDV        float64 `json:"total_fat_pdv" db:"total_fat_pdv"`
	SugarPDV           float64 `json:"sugar_pdv" db:"sugar_pdv"`
	SodiumPDV          float64 `json:"sodium_pdv" db:"sodium_pdv"`
	ProteinPDV         float64 `json:"protein_pdv" db:"protein_pdv"`
	SaturatedFatPDV    float64 `json:"saturated_fat_pdv" db:"saturated_fat_pdv"`
	CarbsPDV           float64 `json:"carbs_pdv" db:"carbs_pdv"`
	ComplexityIndex    float64 `json:"complexity_index" db:"complexity_index"`
	ComplexityCategory string  `json:"complexity_category" db:"complexity_category"`
	IsVegetarian       bool    `json:"is_vegetarian" db:"is_vegetarian"`
	AverageRating      float64 `json:"average_rating" db:"average_rating"`
	ReviewCount        int     `json:"review_count" db:"review_count"`
	PopularityScore    float64 `json:"popularity_score" db:"popularity_score"`
}

// Interaction is one user rating of one recipe.
type Interaction struct {
	UserID   int64   `json:"user_id" db:"user_id"`
	RecipeID int64   `json:"recipe_id" db:"recipe_id"`
	Rating   float64 `json:"rating" db:"rating"`
	Date     string  `json:"date" db:"date"`
}
