package store

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/reciperadar/reciperadar/pkg/recipe"
)

// Run records one completed pipeline execution.
type Run struct {
	ID              int64          `db:"id" json:"id"`
	StartedAt       time.Time      `db:"started_at" json:"started_at"`
	FinishedAt      time.Time      `db:"finished_at" json:"finished_at"`
	RecipeCount     int            `db:"recipe_count" json:"recipe_count"`
	ScoredCount     int            `db:"scored_count" json:"scored_count"`
	MissingValues   int            `db:"missing_values" json:"missing_values"`
	InvalidVectors  int            `db:"invalid_vectors" json:"invalid_vectors"`
	IndexedCount    int            `db:"indexed_count" json:"indexed_count"`
	GradeCountsJSON string         `db:"grade_counts" json:"-"`
	GradeCounts     map[string]int `json:"grade_counts" db:"-"`
}

// ListOpts controls recipe listing.
type ListOpts struct {
	Grade          string
	MaxMinutes     int
	MinScore       float64
	VegetarianOnly bool
	OrderBy        string // "score" (default) or "popularity"
	Limit          int
}

// Store is the persistence interface.
type Store interface {
	ReplaceRecipes(ctx context.Context, recipes []recipe.Recipe) error
	GetRecipe(ctx context.Context, id int64) (*recipe.Recipe, error)
	ListRecipes(ctx context.Context, opts ListOpts) ([]recipe.Recipe, error)
	CountRecipes(ctx context.Context) (int, error)
	CountByGrade(ctx context.Context) (map[string]int, error)

	ReplaceInteractions(ctx context.Context, interactions []recipe.Interaction) error
	CountInteractions(ctx context.Context) (int, error)

	SaveRun(ctx context.Context, run *Run) error
	LatestRun(ctx context.Context) (*Run, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplaceRecipes swaps the full recipe table for the given set in one
// transaction, so readers never observe a half-loaded batch.
func (s *SQLiteStore) ReplaceRecipes(ctx context.Context, recipes []recipe.Recipe) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace recipes: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipes"); err != nil {
		return fmt.Errorf("clear recipes: %w", err)
	}

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO recipes (
			id, name, minutes, submitted, n_steps, n_ingredients, description,
			ingredients, tags, steps, nutrition,
			raw_composite, nutrition_score, nutrition_grade,
			calories, total_fat_pdv, sugar_pdv, sodium_pdv, protein_pdv,
			saturated_fat_pdv, carbs_pdv,
			complexity_index, complexity_category, is_vegetarian,
			average_rating, review_count, popularity_score
		) VALUES (
			:id, :name, :minutes, :submitted, :n_steps, :n_ingredients, :description,
			:ingredients, :tags, :steps, :nutrition,
			:raw_composite, :nutrition_score, :nutrition_grade,
			:calories, :total_fat_pdv, :sugar_pdv, :sodium_pdv, :protein_pdv,
			:saturated_fat_pdv, :carbs_pdv,
			:complexity_index, :complexity_category, :is_vegetarian,
			:average_rating, :review_count, :popularity_score
		)`)
	if err != nil {
		return fmt.Errorf("prepare insert recipe: %w", err)
	}
	defer stmt.Close()

	for i := range recipes {
		r := &recipes[i]
		ingredientsJSON, _ := json.Marshal(r.Ingredients)
		tagsJSON, _ := json.Marshal(r.Tags)
		stepsJSON, _ := json.Marshal(r.Steps)
		r.IngredientsJSON = string(ingredientsJSON)
		r.TagsJSON = string(tagsJSON)
		r.StepsJSON = string(stepsJSON)

		if _, err := stmt.ExecContext(ctx, r); err != nil {
			return fmt.Errorf("insert recipe %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace recipes: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRecipe(ctx context.Context, id int64) (*recipe.Recipe, error) {
	var r recipe.Recipe
	err := s.db.GetContext(ctx, &r, "SELECT * FROM recipes WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	hydrateLists(&r)
	return &r, nil
}

func (s *SQLiteStore) ListRecipes(ctx context.Context, opts ListOpts) ([]recipe.Recipe, error) {
	query := "SELECT * FROM recipes WHERE 1=1"
	var args []any

	if opts.Grade != "" {
		query += " AND nutrition_grade = ?"
		args = append(args, opts.Grade)
	}
	if opts.MaxMinutes > 0 {
		query += " AND minutes <= ?"
		args = append(args, opts.MaxMinutes)
	}
	if opts.MinScore > 0 {
		query += " AND nutrition_score >= ?"
		args = append(args, opts.MinScore)
	}
	if opts.VegetarianOnly {
		query += " AND is_vegetarian = 1"
	}

	switch opts.OrderBy {
	case "popularity":
		query += " ORDER BY popularity_score DESC, id"
	default:
		query += " ORDER BY nutrition_score DESC, id"
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var recipes []recipe.Recipe
	if err := s.db.SelectContext(ctx, &recipes, query, args...); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	for i := range recipes {
		hydrateLists(&recipes[i])
	}
	return recipes, nil
}

func (s *SQLiteStore) CountRecipes(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM recipes"); err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) CountByGrade(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT nutrition_grade, COUNT(*) as cnt FROM recipes GROUP BY nutrition_grade")
	if err != nil {
		return nil, fmt.Errorf("count recipes by grade: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var grade string
		var cnt int
		if err := rows.Scan(&grade, &cnt); err != nil {
			return nil, err
		}
		counts[grade] = cnt
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) ReplaceInteractions(ctx context.Context, interactions []recipe.Interaction) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace interactions: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM interactions"); err != nil {
		return fmt.Errorf("clear interactions: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO interactions (user_id, recipe_id, rating, date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, recipe_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare insert interaction: %w", err)
	}
	defer stmt.Close()

	for i := range interactions {
		in := &interactions[i]
		if _, err := stmt.ExecContext(ctx, in.UserID, in.RecipeID, in.Rating, in.Date); err != nil {
			return fmt.Errorf("insert interaction user %d recipe %d: %w", in.UserID, in.RecipeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace interactions: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CountInteractions(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM interactions"); err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	gradeJSON, _ := json.Marshal(run.GradeCounts)
	run.GradeCountsJSON = string(gradeJSON)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (started_at, finished_at, recipe_count, scored_count, missing_values, invalid_vectors, indexed_count, grade_counts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.StartedAt, run.FinishedAt, run.RecipeCount, run.ScoredCount,
		run.MissingValues, run.InvalidVectors, run.IndexedCount, run.GradeCountsJSON)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	run.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*Run, error) {
	var run Run
	err := s.db.GetContext(ctx, &run, "SELECT * FROM runs ORDER BY finished_at DESC, id DESC LIMIT 1")
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	json.Unmarshal([]byte(run.GradeCountsJSON), &run.GradeCounts)
	return &run, nil
}

func hydrateLists(r *recipe.Recipe) {
	json.Unmarshal([]byte(r.IngredientsJSON), &r.Ingredients)
	json.Unmarshal([]byte(r.TagsJSON), &r.Tags)
	json.Unmarshal([]byte(r.StepsJSON), &r.Steps)
}
