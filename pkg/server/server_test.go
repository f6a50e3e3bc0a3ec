package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/reciperadar/reciperadar/internal/store"
	"github.com/reciperadar/reciperadar/pkg/feature"
	"github.com/reciperadar/reciperadar/pkg/recipe"
	"github.com/reciperadar/reciperadar/pkg/similarity"
)

func testFixtures(t *testing.T) (*store.SQLiteStore, *similarity.Index) {
	t.Helper()

	recipes := []recipe.Recipe{
		{
			ID:             10,
			Name:           "garlic butter pasta",
			Minutes:        25,
			NSteps:         6,
			NIngredients:   3,
			Ingredients:    []string{"pasta", "garlic", "butter"},
			Tags:           []string{"dinner", "easy"},
			NutritionScore: 82.5,
			NutritionGrade: "B",
			IsVegetarian:   true,
		},
		{
			ID:             20,
			Name:           "garlic butter shrimp",
			Minutes:        20,
			NSteps:         5,
			NIngredients:   4,
			Ingredients:    []string{"shrimp", "garlic", "butter", "lemon"},
			Tags:           []string{"dinner", "seafood"},
			NutritionScore: 74.0,
			NutritionGrade: "B",
		},
		{
			ID:             30,
			Name:           "chocolate cake",
			Minutes:        90,
			NSteps:         14,
			NIngredients:   9,
			Ingredients:    []string{"flour", "cocoa", "sugar", "eggs"},
			Tags:           []string{"dessert", "baking"},
			NutritionScore: 41.2,
			NutritionGrade: "D",
		},
	}

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.ReplaceRecipes(context.Background(), recipes))

	extractor, err := feature.NewExtractor(feature.DefaultWeights())
	require.NoError(t, err)
	blocks, state := extractor.Extract(recipes)
	idx, err := similarity.Build([]int64{10, 20, 30}, blocks, state)
	require.NoError(t, err)

	return s, idx
}

func get(t *testing.T, ts *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s, idx := testFixtures(t)
	ts := httptest.NewServer(New(s, idx, 0, 10).Handler())
	defer ts.Close()

	var body map[string]string
	require.Equal(t, http.StatusOK, get(t, ts, "/health", &body))
	require.Equal(t, "ok", body["status"])
}

func TestListRecipes(t *testing.T) {
	t.Parallel()
	s, idx := testFixtures(t)
	ts := httptest.NewServer(New(s, idx, 0, 10).Handler())
	defer ts.Close()

	var body struct {
		Data  []recipe.Recipe `json:"data"`
		Count int             `json:"count"`
	}
	require.Equal(t, http.StatusOK, get(t, ts, "/api/v1/recipes", &body))
	require.Equal(t, 3, body.Count)
	// Default ordering is score descending.
	require.Equal(t, int64(10), body.Data[0].ID)

	require.Equal(t, http.StatusOK, get(t, ts, "/api/v1/recipes?grade=b&max_minutes=22", &body))
	require.Equal(t, 1, body.Count)
	require.Equal(t, int64(20), body.Data[0].ID)

	require.Equal(t, http.StatusOK, get(t, ts, "/api/v1/recipes?vegetarian=true", &body))
	require.Equal(t, 1, body.Count)
	require.Equal(t, int64(10), body.Data[0].ID)
}

func TestGetRecipe(t *testing.T) {
	t.Parallel()
	s, idx := testFixtures(t)
	ts := httptest.NewServer(New(s, idx, 0, 10).Handler())
	defer ts.Close()

	var rec recipe.Recipe
	require.Equal(t, http.StatusOK, get(t, ts, "/api/v1/recipes/10", &rec))
	require.Equal(t, "garlic butter pasta", rec.Name)
	require.Equal(t, []string{"pasta", "garlic", "butter"}, rec.Ingredients)

	var errBody map[string]string
	require.Equal(t, http.StatusNotFound, get(t, ts, "/api/v1/recipes/999", &errBody))
	require.Equal(t, http.StatusBadRequest, get(t, ts, "/api/v1/recipes/abc", &errBody))
}

func TestSimilarRecipes(t *testing.T) {
	t.Parallel()
	s, idx := testFixtures(t)
	ts := httptest.NewServer(New(s, idx, 0, 10).Handler())
	defer ts.Close()

	var body struct {
		RecipeID int64              `json:"recipe_id"`
		Data     []similarity.Match `json:"data"`
		Count    int                `json:"count"`
	}
	require.Equal(t, http.StatusOK, get(t, ts, "/api/v1/recipes/10/similar?k=1", &body))
	require.Equal(t, int64(10), body.RecipeID)
	require.Len(t, body.Data, 1)
	// The other garlic butter dish is the nearest neighbour.
	require.Equal(t, int64(20), body.Data[0].ID)

	var errBody map[string]string
	require.Equal(t, http.StatusNotFound, get(t, ts, "/api/v1/recipes/999/similar", &errBody))
}

func TestSimilarWithoutIndex(t *testing.T) {
	t.Parallel()
	s, _ := testFixtures(t)
	srv := New(s, nil, 0, 10)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var errBody map[string]string
	require.Equal(t, http.StatusServiceUnavailable, get(t, ts, "/api/v1/recipes/10/similar", &errBody))
}

func TestSummary(t *testing.T) {
	t.Parallel()
	s, idx := testFixtures(t)
	ts := httptest.NewServer(New(s, idx, 0, 10).Handler())
	defer ts.Close()

	var body struct {
		Recipes int            `json:"recipes"`
		Grades  map[string]int `json:"grades"`
		Indexed int            `json:"indexed"`
	}
	require.Equal(t, http.StatusOK, get(t, ts, "/api/v1/summary", &body))
	require.Equal(t, 3, body.Recipes)
	require.Equal(t, map[string]int{"B": 2, "D": 1}, body.Grades)
	require.Equal(t, 3, body.Indexed)
}
