package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

// LoadRecipes reads a raw recipe CSV (RAW_recipes.csv layout) into
// memory. Column order is resolved from the header row, so extra
// columns are ignored. Duplicate recipe IDs are a structural error.
func LoadRecipes(path string) ([]recipe.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipes %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read recipes header: %w", err)
	}
	col := columnIndex(header)
	for _, required := range []string{"id", "name"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("recipes csv missing column %q", required)
		}
	}

	var (
		recipes []recipe.Recipe
		seen    = make(map[int64]bool)
	)
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read recipes line %d: %w", line, err)
		}

		id, err := strconv.ParseInt(field(row, col, "id"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("recipes line %d: bad id %q", line, field(row, col, "id"))
		}
		if seen[id] {
			return nil, fmt.Errorf("recipes line %d: duplicate recipe id %d", line, id)
		}
		seen[id] = true

		rec := recipe.Recipe{
			ID:           id,
			Name:         field(row, col, "name"),
			Minutes:      atoiOrZero(field(row, col, "minutes")),
			NSteps:       atoiOrZero(field(row, col, "n_steps")),
			NIngredients: atoiOrZero(field(row, col, "n_ingredients")),
			Description:  field(row, col, "description"),
			Ingredients:  ParseListLiteral(field(row, col, "ingredients")),
			Tags:         ParseListLiteral(field(row, col, "tags")),
			Steps:        ParseListLiteral(field(row, col, "steps")),
			NutritionRaw: field(row, col, "nutrition"),
		}
		rec.Nutrition = ParseNutrients(rec.NutritionRaw)
		if rec.NIngredients == 0 {
			rec.NIngredients = len(rec.Ingredients)
		}
		if ts := field(row, col, "submitted"); ts != "" {
			if t, err := time.Parse("2006-01-02", ts); err == nil {
				rec.Submitted = t
			}
		}
		recipes = append(recipes, rec)
	}
	return recipes, nil
}

func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return col
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func atoiOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
