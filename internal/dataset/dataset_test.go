package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

func TestParseListLiteral(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		[]string{"winter squash", "mexican seasoning", "mixed spice"},
		ParseListLiteral(`['winter squash', 'mexican seasoning', 'mixed spice']`))
	require.Equal(t,
		[]string{"it's good", "salt"},
		ParseListLiteral(`["it's good", "salt"]`))
	require.Nil(t, ParseListLiteral(""))
	require.Nil(t, ParseListLiteral("not a list"))
	require.Nil(t, ParseListLiteral("[]"))
}

func TestParseNutrients(t *testing.T) {
	t.Parallel()

	n := ParseNutrients("[51.5, 0.0, 13.0, 0.0, 2.0, 0.0, 4.0]")
	require.Equal(t, 51.5, n[recipe.Calories])
	require.Equal(t, 13.0, n[recipe.Sugar])
	require.Equal(t, 4.0, n[recipe.Carbohydrates])
	require.False(t, n.FullyMissing())

	// Short vectors are fully missing, never partially parsed.
	require.True(t, ParseNutrients("[51.5, 0.0, 13.0]").FullyMissing())
	require.True(t, ParseNutrients("").FullyMissing())
	require.True(t, ParseNutrients("garbage").FullyMissing())

	// A well-shaped vector with one bad entry keeps the rest.
	n = ParseNutrients("[51.5, x, 13.0, 0.0, 2.0, 0.0, 4.0]")
	require.True(t, math.IsNaN(n[recipe.TotalFat]))
	require.Equal(t, 51.5, n[recipe.Calories])
	require.Equal(t, 1, n.MissingCount())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRecipes(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "recipes.csv",
		`name,id,minutes,contributor_id,submitted,tags,nutrition,n_steps,steps,description,ingredients,n_ingredients
rustic bread,101,190,99,2008-01-04,"['bread', 'oven']","[120.0, 2.0, 1.0, 12.0, 8.0, 0.0, 22.0]",6,"['mix', 'knead', 'bake']",simple loaf,"['flour', 'water', 'salt']",3
mystery stew,102,45,99,2010-06-10,"['stew']",,4,"['simmer']",,"['beef', 'onion']",2
`)

	recipes, err := LoadRecipes(path)
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	r := recipes[0]
	require.Equal(t, int64(101), r.ID)
	require.Equal(t, "rustic bread", r.Name)
	require.Equal(t, 190, r.Minutes)
	require.Equal(t, 6, r.NSteps)
	require.Equal(t, []string{"flour", "water", "salt"}, r.Ingredients)
	require.Equal(t, []string{"bread", "oven"}, r.Tags)
	require.Equal(t, 120.0, r.Nutrition[recipe.Calories])
	require.Equal(t, 2008, r.Submitted.Year())

	// Empty nutrition field is fully missing, the recipe still loads.
	require.True(t, recipes[1].Nutrition.FullyMissing())
}

func TestLoadRecipesDuplicateID(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "recipes.csv",
		`name,id,minutes,tags,nutrition,n_steps,steps,description,ingredients,n_ingredients
a,7,5,[],"[1,1,1,1,1,1,1]",1,[],d,"['x']",1
b,7,5,[],"[1,1,1,1,1,1,1]",1,[],d,"['y']",1
`)
	_, err := LoadRecipes(path)
	require.ErrorContains(t, err, "duplicate recipe id")
}

func TestLoadInteractions(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "interactions.csv",
		`user_id,recipe_id,date,rating,review
1,101,2009-01-01,5,great
2,101,2009-02-01,4,good
3,102,2009-03-01,0,broken rating
x,102,2009-03-01,5,broken user
4,102,2009-04-01,3,ok
`)

	got, err := LoadInteractions(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, int64(101), got[0].RecipeID)
	require.Equal(t, 5.0, got[0].Rating)
	require.Equal(t, int64(4), got[2].UserID)
}
