package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reciperadar/reciperadar/pkg/feature"
)

// Config is the root configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Data       DataConfig       `yaml:"data"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Reports    ReportsConfig    `yaml:"reports"`
	Server     ServerConfig     `yaml:"server"`
	Export     ExportConfig     `yaml:"export"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// DataConfig locates the raw input files and the persisted index bundle.
type DataConfig struct {
	RecipesCSV      string `yaml:"recipes_csv"`
	InteractionsCSV string `yaml:"interactions_csv"`
	BundlePath      string `yaml:"bundle_path"`
}

// SimilarityConfig configures index construction and querying.
type SimilarityConfig struct {
	Weights feature.Weights `yaml:"weights"`
	TopK    int             `yaml:"top_k"`
}

// ScheduleConfig configures the daemon rebuild interval.
type ScheduleConfig struct {
	RebuildInterval string `yaml:"rebuild_interval"`
}

// ParseRebuildInterval returns the rebuild interval as time.Duration.
func (s ScheduleConfig) ParseRebuildInterval() time.Duration {
	d, err := time.ParseDuration(s.RebuildInterval)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// ReportsConfig configures run-summary destinations.
type ReportsConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook reports.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook reports.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook reports.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ExportConfig configures spreadsheet export.
type ExportConfig struct {
	Path string `yaml:"path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./reciperadar.db"},
		Data: DataConfig{
			RecipesCSV:      "./data/RAW_recipes.csv",
			InteractionsCSV: "./data/RAW_interactions.csv",
			BundlePath:      "./data/similarity_bundle.json.gz",
		},
		Similarity: SimilarityConfig{
			Weights: feature.DefaultWeights(),
			TopK:    10,
		},
		Schedule: ScheduleConfig{RebuildInterval: "24h"},
		Reports:  ReportsConfig{},
		Server:   ServerConfig{Port: 8080},
		Export:   ExportConfig{Path: "./data/recipes_enriched.xlsx"},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Similarity.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("validate similarity weights: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RECIPERADAR_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("RECIPERADAR_RECIPES_CSV"); v != "" {
		cfg.Data.RecipesCSV = v
	}
	if v := os.Getenv("RECIPERADAR_INTERACTIONS_CSV"); v != "" {
		cfg.Data.InteractionsCSV = v
	}
	if v := os.Getenv("RECIPERADAR_BUNDLE_PATH"); v != "" {
		cfg.Data.BundlePath = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Reports.Slack.WebhookURL = v
		cfg.Reports.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Reports.Discord.WebhookURL = v
		cfg.Reports.Discord.Enabled = true
	}
}
