package feature

import (
	"fmt"
	"strings"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

// Block names, in concatenation order.
const (
	BlockName        = "name"
	BlockIngredients = "ingredients"
	BlockTags        = "tags"
	BlockEase        = "ease"
)

// Block is one named, weighted sub-matrix of recipe features. Every
// block produced from the same recipe collection has one row per
// recipe in collection order.
type Block struct {
	Name   string
	Weight float64
	Cols   int
	Rows   [][]Cell
}

// NumRows returns the block's row count.
func (b Block) NumRows() int { return len(b.Rows) }

// Weights controls how much each feature block contributes to
// similarity. Name and ease metrics dominate by default, matching how
// strongly they signal "these two recipes are alike".
type Weights struct {
	Name        float64 `yaml:"name"`
	Ingredients float64 `yaml:"ingredients"`
	Tags        float64 `yaml:"tags"`
	Ease        float64 `yaml:"ease"`
}

// DefaultWeights returns the standard block weighting.
func DefaultWeights() Weights {
	return Weights{Name: 5, Ingredients: 1, Tags: 1, Ease: 5}
}

// Validate rejects negative or all-zero weightings.
func (w Weights) Validate() error {
	if w.Name < 0 || w.Ingredients < 0 || w.Tags < 0 || w.Ease < 0 {
		return fmt.Errorf("feature weights must be non-negative: %+v", w)
	}
	if w.Name+w.Ingredients+w.Tags+w.Ease == 0 {
		return fmt.Errorf("at least one feature weight must be positive")
	}
	return nil
}

// State is the fitted extractor state. It is persisted as part of the
// similarity bundle so a consumer can vectorize queries against the
// exact vocabulary and scaling the index was built with.
type State struct {
	NameTerms       []string     `json:"name_terms"`
	IngredientTerms []string     `json:"ingredient_terms"`
	TagTerms        []string     `json:"tag_terms"`
	Ease            MinMaxScaler `json:"ease"`
	Weights         Weights      `json:"weights"`
}

// Extractor builds per-recipe feature blocks.
type Extractor struct {
	weights Weights
}

// NewExtractor validates the weights and returns an extractor.
func NewExtractor(w Weights) (*Extractor, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{weights: w}, nil
}

// Extract fits vocabularies and the ease scaler on the collection and
// returns the four feature blocks plus the fitted state. Row order
// follows the input collection; recipes with empty text fields get
// all-zero rows.
func (e *Extractor) Extract(recipes []recipe.Recipe) ([]Block, *State) {
	nameDocs := make([]string, len(recipes))
	ingredientDocs := make([]string, len(recipes))
	tagDocs := make([]string, len(recipes))
	easeRows := make([][]float64, len(recipes))
	for i, r := range recipes {
		nameDocs[i] = r.Name
		ingredientDocs[i] = strings.Join(r.Ingredients, " ")
		tagDocs[i] = strings.Join(r.Tags, " ")
		easeRows[i] = []float64{float64(r.NSteps), float64(r.Minutes)}
	}

	nameVec := NewVectorizer()
	nameVec.Fit(nameDocs)
	ingredientVec := NewVectorizer()
	ingredientVec.Fit(ingredientDocs)
	tagVec := NewVectorizer()
	tagVec.Fit(tagDocs)

	var scaler MinMaxScaler
	scaler.Fit(easeRows)

	blocks := []Block{
		{Name: BlockName, Weight: e.weights.Name, Cols: nameVec.VocabSize(), Rows: nameVec.Transform(nameDocs)},
		{Name: BlockIngredients, Weight: e.weights.Ingredients, Cols: ingredientVec.VocabSize(), Rows: ingredientVec.Transform(ingredientDocs)},
		{Name: BlockTags, Weight: e.weights.Tags, Cols: tagVec.VocabSize(), Rows: tagVec.Transform(tagDocs)},
		{Name: BlockEase, Weight: e.weights.Ease, Cols: easeCols, Rows: scaler.TransformCells(easeRows)},
	}
	state := &State{
		NameTerms:       nameVec.Terms,
		IngredientTerms: ingredientVec.Terms,
		TagTerms:        tagVec.Terms,
		Ease:            scaler,
		Weights:         e.weights,
	}
	return blocks, state
}
