package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

const sheet = "Recipes"

var header = []any{
	"id", "name", "minutes", "submitted", "n_steps", "n_ingredients",
	"ingredients", "tags",
	"nutrition_score", "nutrition_grade", "raw_composite",
	"calories", "total_fat_pdv", "sugar_pdv", "sodium_pdv",
	"protein_pdv", "saturated_fat_pdv", "carbs_pdv",
	"complexity_index", "complexity_category", "is_vegetarian",
	"average_rating", "review_count", "popularity_score",
}

// WriteXLSX writes the enriched recipe table to an .xlsx workbook.
func WriteXLSX(path string, recipes []recipe.Recipe) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	// StreamWriter for efficiency on large tables
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range recipes {
		r := &recipes[i]
		submitted := ""
		if !r.Submitted.IsZero() {
			submitted = r.Submitted.Format("2006-01-02")
		}
		row := []any{
			r.ID, r.Name, r.Minutes, submitted, r.NSteps, r.NIngredients,
			strings.Join(r.Ingredients, "; "), strings.Join(r.Tags, "; "),
			r.NutritionScore, r.NutritionGrade, r.RawComposite,
			r.Calories, r.TotalFatPDV, r.SugarPDV, r.SodiumPDV,
			r.ProteinPDV, r.SaturatedFatPDV, r.CarbsPDV,
			r.ComplexityIndex, r.ComplexityCategory, r.IsVegetarian,
			r.AverageRating, r.ReviewCount, r.PopularityScore,
		}
		cellAddr, _ := excelize.CoordinatesToCellName(1, i+2) // A2, A3, ...
		if err := sw.SetRow(cellAddr, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush stream writer: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
