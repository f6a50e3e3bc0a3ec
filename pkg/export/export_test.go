package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	recipes := []recipe.Recipe{
		{
			ID:                 10,
			Name:               "garlic butter pasta",
			Minutes:            25,
			Submitted:          time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC),
			NSteps:             6,
			NIngredients:       3,
			Ingredients:        []string{"pasta", "garlic", "butter"},
			Tags:               []string{"dinner", "easy"},
			NutritionScore:     82.5,
			NutritionGrade:     "B",
			ComplexityCategory: "Simple",
			IsVegetarian:       true,
		},
		{
			ID:             20,
			Name:           "chicken curry",
			NutritionGrade: "C",
		},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(path, recipes))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "id", rows[0][0])
	require.Equal(t, "nutrition_grade", rows[0][9])

	require.Equal(t, "10", rows[1][0])
	require.Equal(t, "garlic butter pasta", rows[1][1])
	require.Equal(t, "2019-04-02", rows[1][3])
	require.Equal(t, "pasta; garlic; butter", rows[1][6])
	require.Equal(t, "B", rows[1][9])

	require.Equal(t, "chicken curry", rows[2][1])
	require.Equal(t, "", rows[2][3])
}

func TestWriteXLSXEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteXLSX(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
