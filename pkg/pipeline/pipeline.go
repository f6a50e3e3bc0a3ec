package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/reciperadar/reciperadar/internal/config"
	"github.com/reciperadar/reciperadar/internal/dataset"
	"github.com/reciperadar/reciperadar/internal/store"
	"github.com/reciperadar/reciperadar/pkg/feature"
	"github.com/reciperadar/reciperadar/pkg/logger"
	"github.com/reciperadar/reciperadar/pkg/nutrition"
	"github.com/reciperadar/reciperadar/pkg/popularity"
	"github.com/reciperadar/reciperadar/pkg/recipe"
	"github.com/reciperadar/reciperadar/pkg/similarity"
)

// Pipeline runs the full preprocessing pass: load, enrich, score,
// persist, and rebuild the similarity index.
type Pipeline struct {
	store           store.Store
	model           *nutrition.Model
	weights         feature.Weights
	recipesCSV      string
	interactionsCSV string
	bundlePath      string
	log             *slog.Logger
}

// New wires a pipeline from configuration. The scoring model is the
// built-in one; only the feature weights and paths come from config.
func New(s store.Store, cfg *config.Config) *Pipeline {
	return &Pipeline{
		store:           s,
		model:           nutrition.Default(),
		weights:         cfg.Similarity.Weights,
		recipesCSV:      cfg.Data.RecipesCSV,
		interactionsCSV: cfg.Data.InteractionsCSV,
		bundlePath:      cfg.Data.BundlePath,
		log:             logger.New("pipeline"),
	}
}

// Run executes one full pass and returns its summary. The previous
// database contents and index bundle are replaced wholesale; a run that
// errors out leaves the old bundle on disk untouched.
func (p *Pipeline) Run(ctx context.Context) (*store.Run, error) {
	started := time.Now().UTC()

	recipes, err := dataset.LoadRecipes(p.recipesCSV)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("load recipes: %s contains no rows", p.recipesCSV)
	}
	p.log.Info("recipes loaded", "count", len(recipes), "path", p.recipesCSV)

	interactions, err := p.loadInteractions()
	if err != nil {
		return nil, err
	}

	vegCount := ClassifyVegetarian(recipes)
	p.log.Info("vegetarian classification done", "vegetarian", vegCount, "total", len(recipes))

	stats := ScoreRecipes(p.model, recipes)
	if stats.Sentinel > 0 || stats.MissingValues > 0 {
		p.log.Warn("incomplete nutrition data",
			"recipes_without_nutrition", stats.Sentinel,
			"missing_values", stats.MissingValues)
	}

	ApplyComplexity(recipes)
	attachPopularity(recipes, popularity.Compute(interactions))

	if err := p.store.ReplaceRecipes(ctx, recipes); err != nil {
		return nil, fmt.Errorf("persist recipes: %w", err)
	}
	if len(interactions) > 0 {
		if err := p.store.ReplaceInteractions(ctx, interactions); err != nil {
			return nil, fmt.Errorf("persist interactions: %w", err)
		}
	}

	idx, err := p.buildIndex(recipes)
	if err != nil {
		return nil, err
	}
	if err := idx.Save(p.bundlePath); err != nil {
		return nil, fmt.Errorf("save similarity bundle: %w", err)
	}
	p.log.Info("similarity bundle written", "path", p.bundlePath, "recipes", idx.Len())

	grades := make(map[string]int)
	for i := range recipes {
		grades[recipes[i].NutritionGrade]++
	}

	run := &store.Run{
		StartedAt:      started,
		FinishedAt:     time.Now().UTC(),
		RecipeCount:    len(recipes),
		ScoredCount:    stats.Scored,
		MissingValues:  stats.MissingValues,
		InvalidVectors: stats.Sentinel,
		IndexedCount:   idx.Len(),
		GradeCounts:    grades,
	}
	if err := p.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}

	p.log.Info("pipeline finished",
		"recipes", run.RecipeCount,
		"indexed", run.IndexedCount,
		"duration", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	return run, nil
}

// loadInteractions tolerates a missing interactions file: ratings are
// optional input and their absence only zeroes the popularity columns.
func (p *Pipeline) loadInteractions() ([]recipe.Interaction, error) {
	if p.interactionsCSV == "" {
		return nil, nil
	}
	if _, err := os.Stat(p.interactionsCSV); os.IsNotExist(err) {
		p.log.Warn("interactions file not found, skipping popularity", "path", p.interactionsCSV)
		return nil, nil
	}
	interactions, err := dataset.LoadInteractions(p.interactionsCSV)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}
	p.log.Info("interactions loaded", "count", len(interactions), "path", p.interactionsCSV)
	return interactions, nil
}

func (p *Pipeline) buildIndex(recipes []recipe.Recipe) (*similarity.Index, error) {
	extractor, err := feature.NewExtractor(p.weights)
	if err != nil {
		return nil, fmt.Errorf("build extractor: %w", err)
	}

	ids := make([]int64, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
	}

	blocks, state := extractor.Extract(recipes)
	idx, err := similarity.Build(ids, blocks, state)
	if err != nil {
		return nil, fmt.Errorf("build similarity index: %w", err)
	}
	return idx, nil
}

func attachPopularity(recipes []recipe.Recipe, metrics map[int64]popularity.Metrics) {
	for i := range recipes {
		if m, ok := metrics[recipes[i].ID]; ok {
			recipes[i].AverageRating = m.AverageRating
			recipes[i].ReviewCount = m.ReviewCount
			recipes[i].PopularityScore = m.Score
		}
	}
}
