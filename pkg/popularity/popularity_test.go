package popularity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

func TestComputeAveragesAndCounts(t *testing.T) {
	t.Parallel()

	metrics := Compute([]recipe.Interaction{
		{UserID: 1, RecipeID: 100, Rating: 5},
		{UserID: 2, RecipeID: 100, Rating: 4},
		{UserID: 3, RecipeID: 200, Rating: 3},
	})

	require.Len(t, metrics, 2)
	require.Equal(t, 4.5, metrics[100].AverageRating)
	require.Equal(t, 2, metrics[100].ReviewCount)
	require.Equal(t, 3.0, metrics[200].AverageRating)

	// The recipe with the highest volume gets the full review-count
	// contribution: 0.7*rating_norm + 0.3*1.
	require.InDelta(t, 0.7*(4.5-1)/4+0.3, metrics[100].Score, 0.001)
	require.Greater(t, metrics[100].Score, metrics[200].Score)
}

func TestComputeDropsDuplicateUserRecipePairs(t *testing.T) {
	t.Parallel()

	metrics := Compute([]recipe.Interaction{
		{UserID: 1, RecipeID: 100, Rating: 5},
		{UserID: 1, RecipeID: 100, Rating: 1}, // second rating by the same user is ignored
		{UserID: 1, RecipeID: 200, Rating: 2},
	})

	require.Equal(t, 5.0, metrics[100].AverageRating)
	require.Equal(t, 1, metrics[100].ReviewCount)
	require.Equal(t, 1, metrics[200].ReviewCount)
}

func TestComputeEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, Compute(nil))
}

func TestRankedDeterministic(t *testing.T) {
	t.Parallel()

	metrics := map[int64]Metrics{
		7: {RecipeID: 7, Score: 0.5},
		3: {RecipeID: 3, Score: 0.5},
		9: {RecipeID: 9, Score: 0.9},
	}
	ranked := Ranked(metrics)
	require.Equal(t, int64(9), ranked[0].RecipeID)
	require.Equal(t, int64(3), ranked[1].RecipeID)
	require.Equal(t, int64(7), ranked[2].RecipeID)
}
