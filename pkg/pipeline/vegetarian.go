package pipeline

import (
	"strings"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

// nonVegKeywords flags ingredients of animal origin. Matching is a
// case-insensitive substring test, so "chicken" also catches
// "chicken thighs" and "roast chicken".
var nonVegKeywords = []string{
	// Meat
	"beef", "pork", "lamb", "veal", "venison", "mutton", "goat",
	// Poultry
	"chicken", "turkey", "duck", "goose", "quail",
	// Seafood
	"fish", "salmon", "tuna", "cod", "halibut", "trout", "bass",
	"snapper", "shrimp", "prawn", "crab", "lobster", "clam", "mussel",
	"oyster", "scallop", "anchovy", "sardine", "mackerel", "herring",
	// Processed meats
	"bacon", "ham", "sausage", "pepperoni", "salami", "chorizo",
	"prosciutto", "pancetta", "mortadella", "bratwurst", "kielbasa",
	"hot dog", "frankfurter",
	// Other animal products
	"gelatin", "lard", "tallow", "suet", "bone", "marrow",
	// General terms
	"meat", "steak", "roast", "cutlet", "fillet", "wing", "thigh", "breast",
}

// ClassifyVegetarian sets IsVegetarian on every recipe and returns how
// many were classified vegetarian. A recipe with no ingredient list is
// treated as non-vegetarian rather than guessed at.
func ClassifyVegetarian(recipes []recipe.Recipe) int {
	count := 0
	for i := range recipes {
		r := &recipes[i]
		r.IsVegetarian = isVegetarian(r.Ingredients)
		if r.IsVegetarian {
			count++
		}
	}
	return count
}

func isVegetarian(ingredients []string) bool {
	if len(ingredients) == 0 {
		return false
	}
	joined := strings.ToLower(strings.Join(ingredients, ", "))
	for _, kw := range nonVegKeywords {
		if strings.Contains(joined, kw) {
			return false
		}
	}
	return true
}
