package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"

	"github.com/reciperadar/reciperadar/internal/config"
	"github.com/reciperadar/reciperadar/internal/dataset"
	"github.com/reciperadar/reciperadar/internal/scheduler"
	"github.com/reciperadar/reciperadar/internal/store"
	"github.com/reciperadar/reciperadar/pkg/export"
	"github.com/reciperadar/reciperadar/pkg/nutrition"
	"github.com/reciperadar/reciperadar/pkg/pipeline"
	"github.com/reciperadar/reciperadar/pkg/report"
	"github.com/reciperadar/reciperadar/pkg/server"
	"github.com/reciperadar/reciperadar/pkg/similarity"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func runPipeline() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	run, err := pipeline.New(db, cfg).Run(ctx)
	if err != nil {
		return err
	}

	reports := report.FromConfig(cfg.Reports)
	if reports.HasNotifiers() {
		if err := reports.Broadcast(ctx, report.FromRun(run)); err != nil {
			fmt.Fprintf(os.Stderr, "report error: %v\n", err)
		}
	}

	summary := report.FromRun(run)
	fmt.Printf("recipes: %d (scored %d, without nutrition %d)\n",
		run.RecipeCount, run.ScoredCount, run.InvalidVectors)
	fmt.Printf("indexed: %d\n", run.IndexedCount)
	fmt.Printf("grades:  %s\n", summary.GradeLine())
	fmt.Printf("took:    %s\n", summary.Duration().Round(time.Millisecond))
	return nil
}

func runScore(id int64) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	rec, err := db.GetRecipe(context.Background(), id)
	if err != nil {
		return err
	}

	model := nutrition.Default()
	b := model.Score(dataset.ParseNutrients(rec.NutritionRaw))

	fmt.Printf("%s (id %d)\n\n", rec.Name, rec.ID)

	if b.Sentinel {
		fmt.Printf("no nutrition data, neutral composite %.1f assigned\n", b.Composite)
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NUTRIENT\tOPTIMAL\tWEIGHT\tSUB-SCORE")
		for i, s := range b.SubScores {
			r := model.Range(i)
			fmt.Fprintf(w, "%s\t%.0f-%.0f\t%.2f\t%.2f\n", r.Name, r.Lower, r.Upper, r.Weight, s)
		}
		w.Flush()
		fmt.Printf("\nbase %.1f + bonus %.1f - penalty %.1f = composite %.1f\n",
			b.Base, b.Bonus, b.Penalty, b.Composite)
	}

	fmt.Printf("normalized score %.1f, grade %s\n", rec.NutritionScore, rec.NutritionGrade)
	return nil
}

func runSimilar(id int64, k int, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if k <= 0 {
		k = cfg.Similarity.TopK
	}

	idx, err := similarity.Load(cfg.Data.BundlePath)
	if err != nil {
		return fmt.Errorf("load similarity bundle (run the pipeline first): %w", err)
	}

	matches, err := idx.TopK(id, k)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tID\tNAME\tGRADE")
	for _, m := range matches {
		name, grade := "?", "?"
		if rec, err := db.GetRecipe(context.Background(), m.ID); err == nil {
			name, grade = rec.Name, rec.NutritionGrade
		}
		fmt.Fprintf(w, "%.4f\t%d\t%s\t%s\n", m.Score, m.ID, name, grade)
	}
	return w.Flush()
}

func runExport(out string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if out == "" {
		out = cfg.Export.Path
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	total, err := db.CountRecipes(ctx)
	if err != nil {
		return err
	}
	if total == 0 {
		return fmt.Errorf("no recipes stored (run the pipeline first)")
	}

	recipes, err := db.ListRecipes(ctx, store.ListOpts{Limit: total})
	if err != nil {
		return err
	}

	if err := export.WriteXLSX(out, recipes); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %d recipes to %s\n", len(recipes), out)
	return nil
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	idx, err := similarity.Load(cfg.Data.BundlePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "similarity bundle unavailable: %v\n", err)
		idx = nil
	}

	srv := server.New(db, idx, port, cfg.Similarity.TopK)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	idx, err := similarity.Load(cfg.Data.BundlePath)
	if err != nil {
		idx = nil // first scheduler pass builds it
	}

	srv := server.New(db, idx, port, cfg.Similarity.TopK)
	reports := report.FromConfig(cfg.Reports)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(pipeline.New(db, cfg), reports, srv,
		cfg.Data.BundlePath, cfg.Schedule.ParseRebuildInterval())

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	return srv.ListenAndServe()
}
