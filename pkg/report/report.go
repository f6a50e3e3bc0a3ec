package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/reciperadar/reciperadar/internal/config"
	"github.com/reciperadar/reciperadar/internal/store"
)

// Summary is the run report sent to configured destinations.
type Summary struct {
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	RecipeCount    int            `json:"recipe_count"`
	ScoredCount    int            `json:"scored_count"`
	MissingValues  int            `json:"missing_values"`
	InvalidVectors int            `json:"invalid_vectors"`
	IndexedCount   int            `json:"indexed_count"`
	GradeCounts    map[string]int `json:"grade_counts"`
}

// FromRun builds a Summary from a persisted pipeline run.
func FromRun(run *store.Run) *Summary {
	return &Summary{
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		RecipeCount:    run.RecipeCount,
		ScoredCount:    run.ScoredCount,
		MissingValues:  run.MissingValues,
		InvalidVectors: run.InvalidVectors,
		IndexedCount:   run.IndexedCount,
		GradeCounts:    run.GradeCounts,
	}
}

// Duration returns the run's wall-clock duration.
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// GradeLine renders grade counts as "A: 12 | B: 40 | ..." in grade order.
func (s *Summary) GradeLine() string {
	grades := make([]string, 0, len(s.GradeCounts))
	for g := range s.GradeCounts {
		grades = append(grades, g)
	}
	sort.Strings(grades)

	parts := make([]string, 0, len(grades))
	for _, g := range grades {
		parts = append(parts, fmt.Sprintf("%s: %d", g, s.GradeCounts[g]))
	}
	return strings.Join(parts, " | ")
}

// Notifier delivers run summaries to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, s *Summary) error
}

// Manager broadcasts summaries to all registered notifiers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new report manager.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// FromConfig builds a manager with every destination enabled in config.
func FromConfig(cfg config.ReportsConfig) *Manager {
	var notifiers []Notifier
	if cfg.Slack.Enabled && cfg.Slack.WebhookURL != "" {
		notifiers = append(notifiers, NewSlack(cfg.Slack.WebhookURL))
	}
	if cfg.Discord.Enabled && cfg.Discord.WebhookURL != "" {
		notifiers = append(notifiers, NewDiscord(cfg.Discord.WebhookURL))
	}
	if cfg.Webhook.Enabled && cfg.Webhook.URL != "" {
		notifiers = append(notifiers, NewWebhook(cfg.Webhook.URL, cfg.Webhook.Secret))
	}
	return NewManager(notifiers)
}

// HasNotifiers returns true if at least one notifier is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Broadcast sends a summary to all registered notifiers.
func (m *Manager) Broadcast(ctx context.Context, s *Summary) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, s); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errors.Join(errs...)
}
