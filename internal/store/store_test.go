package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{
			ID:             1,
			Name:           "garlic butter pasta",
			Minutes:        25,
			Submitted:      time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC),
			NSteps:         6,
			NIngredients:   5,
			Ingredients:    []string{"pasta", "garlic", "butter"},
			Tags:           []string{"dinner", "easy"},
			Steps:          []string{"boil pasta", "melt butter"},
			NutritionScore: 82.5,
			NutritionGrade: "B",
			IsVegetarian:   true,
		},
		{
			ID:              2,
			Name:            "beef stew",
			Minutes:         180,
			NSteps:          12,
			NIngredients:    9,
			Ingredients:     []string{"beef", "carrot", "onion"},
			NutritionScore:  64.0,
			NutritionGrade:  "C",
			PopularityScore: 0.9,
		},
	}
}

func TestReplaceAndGetRecipe(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceRecipes(ctx, sampleRecipes()))

	got, err := s.GetRecipe(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "garlic butter pasta", got.Name)
	require.Equal(t, []string{"pasta", "garlic", "butter"}, got.Ingredients)
	require.Equal(t, []string{"dinner", "easy"}, got.Tags)
	require.True(t, got.IsVegetarian)

	_, err = s.GetRecipe(ctx, 999)
	require.Error(t, err)
}

func TestReplaceRecipesSwapsWholeTable(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceRecipes(ctx, sampleRecipes()))
	require.NoError(t, s.ReplaceRecipes(ctx, sampleRecipes()[:1]))

	count, err := s.CountRecipes(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	_, err = s.GetRecipe(ctx, 2)
	require.Error(t, err)
}

func TestListRecipesFilters(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceRecipes(ctx, sampleRecipes()))

	veg, err := s.ListRecipes(ctx, ListOpts{VegetarianOnly: true})
	require.NoError(t, err)
	require.Len(t, veg, 1)
	require.Equal(t, int64(1), veg[0].ID)

	quick, err := s.ListRecipes(ctx, ListOpts{MaxMinutes: 60})
	require.NoError(t, err)
	require.Len(t, quick, 1)

	byPop, err := s.ListRecipes(ctx, ListOpts{OrderBy: "popularity"})
	require.NoError(t, err)
	require.Len(t, byPop, 2)
	require.Equal(t, int64(2), byPop[0].ID)

	graded, err := s.ListRecipes(ctx, ListOpts{Grade: "B"})
	require.NoError(t, err)
	require.Len(t, graded, 1)
}

func TestCountByGrade(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceRecipes(ctx, sampleRecipes()))

	counts, err := s.CountByGrade(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"B": 1, "C": 1}, counts)
}

func TestReplaceInteractionsDedupes(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	interactions := []recipe.Interaction{
		{UserID: 7, RecipeID: 1, Rating: 5, Date: "2020-01-01"},
		{UserID: 7, RecipeID: 1, Rating: 2, Date: "2020-02-01"},
		{UserID: 8, RecipeID: 1, Rating: 4, Date: "2020-01-15"},
	}
	require.NoError(t, s.ReplaceInteractions(ctx, interactions))

	count, err := s.CountInteractions(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestSaveAndLatestRun(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	first := &Run{
		StartedAt:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt:  time.Date(2024, 1, 1, 10, 5, 0, 0, time.UTC),
		RecipeCount: 100,
		ScoredCount: 98,
		GradeCounts: map[string]int{"A": 10, "B": 40},
	}
	require.NoError(t, s.SaveRun(ctx, first))
	require.NotZero(t, first.ID)

	second := &Run{
		StartedAt:   time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		FinishedAt:  time.Date(2024, 1, 2, 10, 4, 0, 0, time.UTC),
		RecipeCount: 120,
		ScoredCount: 120,
		GradeCounts: map[string]int{"A": 12},
	}
	require.NoError(t, s.SaveRun(ctx, second))

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	require.Equal(t, second.ID, latest.ID)
	require.Equal(t, 120, latest.RecipeCount)
	require.Equal(t, map[string]int{"A": 12}, latest.GradeCounts)
}
