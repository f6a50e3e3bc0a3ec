package feature

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"crispy", "oven", "fries"}, Tokenize("Crispy Oven-Fries!"))
	require.Equal(t, []string{"30", "minute", "meal"}, Tokenize("30-minute meal"))
	// Single characters are dropped.
	require.Equal(t, []string{"bbq"}, Tokenize("a b bbq"))
	require.Empty(t, Tokenize(""))
}

func TestVectorizerFitTransform(t *testing.T) {
	t.Parallel()

	v := NewVectorizer()
	v.Fit([]string{"flour water salt", "flour sugar", ""})
	require.Equal(t, []string{"flour", "salt", "sugar", "water"}, v.Terms)

	rows := v.Transform([]string{"flour flour water", "butter", ""})
	require.Len(t, rows, 3)
	require.Equal(t, []Cell{{Col: 0, Val: 2}, {Col: 3, Val: 1}}, rows[0])
	// Unknown-only and empty documents produce all-zero rows.
	require.Empty(t, rows[1])
	require.Empty(t, rows[2])
}

func TestVectorizerRestoredFromTerms(t *testing.T) {
	t.Parallel()

	fitted := NewVectorizer()
	fitted.Fit([]string{"pepper salt", "salt vinegar"})

	restored := NewVectorizerFromTerms(fitted.Terms)
	doc := []string{"salt pepper pepper"}
	require.Equal(t, fitted.Transform(doc), restored.Transform(doc))
}

func TestMinMaxScaler(t *testing.T) {
	t.Parallel()

	var s MinMaxScaler
	s.Fit([][]float64{{2, 100}, {10, 20}, {6, 60}})

	require.Equal(t, 0.0, s.Scale(0, 2))
	require.Equal(t, 1.0, s.Scale(0, 10))
	require.InDelta(t, 0.5, s.Scale(0, 6), 1e-9)
	require.InDelta(t, 0.5, s.Scale(1, 60), 1e-9)
	// Out-of-range values clamp instead of leaving [0, 1].
	require.Equal(t, 1.0, s.Scale(0, 50))
	require.Equal(t, 0.0, s.Scale(0, -5))
}

func TestExtractBlocksAligned(t *testing.T) {
	t.Parallel()

	recipes := []recipe.Recipe{
		{ID: 1, Name: "garlic bread", Ingredients: []string{"bread", "garlic", "butter"}, Tags: []string{"snack"}, NSteps: 3, Minutes: 15},
		{ID: 2, Name: "garlic soup", Ingredients: []string{"garlic", "stock"}, Tags: []string{"soup", "dinner"}, NSteps: 5, Minutes: 40},
		{ID: 3, Name: "", Ingredients: nil, Tags: nil, NSteps: 1, Minutes: 5},
	}

	e, err := NewExtractor(DefaultWeights())
	require.NoError(t, err)
	blocks, state := e.Extract(recipes)

	require.Len(t, blocks, 4)
	for _, b := range blocks {
		require.Equal(t, len(recipes), b.NumRows(), b.Name)
	}
	require.Equal(t, BlockName, blocks[0].Name)
	require.Equal(t, BlockEase, blocks[3].Name)
	require.Equal(t, 5.0, blocks[0].Weight)
	require.Equal(t, 1.0, blocks[1].Weight)

	// Empty text fields produce all-zero rows without excluding the recipe.
	require.Empty(t, blocks[0].Rows[2])
	require.Empty(t, blocks[1].Rows[2])
	require.Empty(t, blocks[2].Rows[2])

	require.Contains(t, state.IngredientTerms, "garlic")
	require.Contains(t, state.TagTerms, "dinner")
	require.Equal(t, []float64{1, 5}, state.Ease.Min)
	require.Equal(t, []float64{5, 40}, state.Ease.Max)
}

func TestNewExtractorRejectsBadWeights(t *testing.T) {
	t.Parallel()

	_, err := NewExtractor(Weights{Name: -1, Ingredients: 1, Tags: 1, Ease: 1})
	require.Error(t, err)
	_, err = NewExtractor(Weights{})
	require.Error(t, err)
}
