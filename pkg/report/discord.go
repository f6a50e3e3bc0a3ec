package report

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// Discord sends run summaries via Discord webhook.
type Discord struct {
	client     *http.Client
	webhookURL string
}

// NewDiscord creates a new Discord notifier.
func NewDiscord(webhookURL string) *Discord {
	return &Discord{
		client:     &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
	}
}

func (d *Discord) Name() string { return "discord" }

func (d *Discord) Send(ctx context.Context, sum *Summary) error {
	description := fmt.Sprintf("**Recipes:** %d | **Indexed:** %d | **Duration:** %s\n**Grades:** %s",
		sum.RecipeCount, sum.IndexedCount, sum.Duration().Round(time.Second), sum.GradeLine())
	if sum.InvalidVectors > 0 || sum.MissingValues > 0 {
		description += fmt.Sprintf("\n\n⚠️ %d recipes without nutrition, %d values substituted",
			sum.InvalidVectors, sum.MissingValues)
	}

	embed := map[string]any{
		"title":       "🍲 Recipe pipeline finished",
		"description": description,
		"color":       0x2ECC71,
		"timestamp":   sum.FinishedAt.UTC().Format(time.RFC3339),
	}

	payload := map[string]any{
		"embeds": []map[string]any{embed},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook status %d", resp.StatusCode)
	}

	return nil
}
