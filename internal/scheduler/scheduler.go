package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/reciperadar/reciperadar/pkg/pipeline"
	"github.com/reciperadar/reciperadar/pkg/report"
	"github.com/reciperadar/reciperadar/pkg/server"
	"github.com/reciperadar/reciperadar/pkg/similarity"
)

// Scheduler periodically reruns the full pipeline so the stored table
// and similarity bundle track the raw input files.
type Scheduler struct {
	pipeline   *pipeline.Pipeline
	reports    *report.Manager
	srv        *server.Server // optional, gets the fresh index after each rebuild
	bundlePath string
	interval   time.Duration
}

// New creates a new scheduler. srv may be nil when no HTTP server runs
// alongside the daemon.
func New(p *pipeline.Pipeline, reports *report.Manager, srv *server.Server, bundlePath string, interval time.Duration) *Scheduler {
	if interval == 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		pipeline:   p,
		reports:    reports,
		srv:        srv,
		bundlePath: bundlePath,
		interval:   interval,
	}
}

// Run starts the rebuild loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial rebuild...")
	s.rebuild(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (rebuild every %s)\n", s.interval)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-ticker.C:
			fmt.Fprintln(os.Stderr, "scheduler: rebuilding...")
			s.rebuild(ctx)
		}
	}
}

func (s *Scheduler) rebuild(ctx context.Context) {
	run, err := s.pipeline.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  rebuild error: %v\n", err)
		return
	}

	if s.srv != nil {
		idx, err := similarity.Load(s.bundlePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  bundle reload error: %v\n", err)
		} else {
			s.srv.SetIndex(idx)
		}
	}

	if s.reports != nil && s.reports.HasNotifiers() {
		if err := s.reports.Broadcast(ctx, report.FromRun(run)); err != nil {
			fmt.Fprintf(os.Stderr, "  report error: %v\n", err)
		}
	}

	fmt.Fprintf(os.Stderr, "  rebuilt: %d recipes, %d indexed\n", run.RecipeCount, run.IndexedCount)
}
