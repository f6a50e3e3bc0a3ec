package popularity

import (
	"math"
	"sort"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

// Rating vs review-count contribution to the popularity score. Quality
// dominates raw volume.
const (
	ratingWeight = 0.7
	reviewWeight = 0.3
)

// Metrics aggregates one recipe's interactions.
type Metrics struct {
	RecipeID      int64
	AverageRating float64 // 1-5, rounded to 2 decimals
	ReviewCount   int
	Score         float64 // 0-1, rounded to 3 decimals
}

// Compute cleans the interactions (duplicate user+recipe pairs keep
// the first occurrence; ratings outside 1-5 were already dropped at
// load) and derives per-recipe popularity metrics. Review counts are
// log-scaled so a handful of viral recipes does not flatten the score
// for everything else.
func Compute(interactions []recipe.Interaction) map[int64]Metrics {
	type agg struct {
		sum   float64
		count int
	}
	type pair struct{ user, recipe int64 }

	seen := make(map[pair]bool, len(interactions))
	byRecipe := make(map[int64]*agg)
	for _, it := range interactions {
		p := pair{it.UserID, it.RecipeID}
		if seen[p] {
			continue
		}
		seen[p] = true
		a := byRecipe[it.RecipeID]
		if a == nil {
			a = &agg{}
			byRecipe[it.RecipeID] = a
		}
		a.sum += it.Rating
		a.count++
	}

	maxReviews := 0
	for _, a := range byRecipe {
		if a.count > maxReviews {
			maxReviews = a.count
		}
	}

	out := make(map[int64]Metrics, len(byRecipe))
	for id, a := range byRecipe {
		avg := round(a.sum/float64(a.count), 2)
		normRating := (avg - 1) / 4
		normReviews := 0.0
		if maxReviews > 0 {
			normReviews = math.Log1p(float64(a.count)) / math.Log1p(float64(maxReviews))
		}
		out[id] = Metrics{
			RecipeID:      id,
			AverageRating: avg,
			ReviewCount:   a.count,
			Score:         round(ratingWeight*normRating+reviewWeight*normReviews, 3),
		}
	}
	return out
}

// Ranked returns the metrics sorted by score descending, ties broken
// by lower recipe ID.
func Ranked(metrics map[int64]Metrics) []Metrics {
	out := make([]Metrics, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].RecipeID < out[j].RecipeID
	})
	return out
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
