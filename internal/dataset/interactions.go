package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

// LoadInteractions reads a raw interactions CSV (RAW_interactions.csv
// layout). Rows with unreadable IDs or ratings outside the 1-5 scale
// are skipped; cleaning beyond that (dedupe per user+recipe) happens
// in the popularity stage.
func LoadInteractions(path string) ([]recipe.Interaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open interactions %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read interactions header: %w", err)
	}
	col := columnIndex(header)
	for _, required := range []string{"user_id", "recipe_id", "rating"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("interactions csv missing column %q", required)
		}
	}

	var interactions []recipe.Interaction
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read interactions line %d: %w", line, err)
		}

		userID, err1 := strconv.ParseInt(field(row, col, "user_id"), 10, 64)
		recipeID, err2 := strconv.ParseInt(field(row, col, "recipe_id"), 10, 64)
		rating, err3 := strconv.ParseFloat(field(row, col, "rating"), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		if rating < 1 || rating > 5 {
			continue
		}
		interactions = append(interactions, recipe.Interaction{
			UserID:   userID,
			RecipeID: recipeID,
			Rating:   rating,
			Date:     field(row, col, "date"),
		})
	}
	return interactions, nil
}
