package logger

import (
	"log/slog"
	"os"
)

// New returns a structured logger scoped to one pipeline component.
func New(component string) *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h).With("component", component)
}
