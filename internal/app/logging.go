package app

import (
	"log/slog"
	"os"
)

// NewLogger returns a text logger for development and JSON everywhere else,
// and installs it as the process default.
func NewLogger(environment string) *slog.Logger {
	var handler slog.Handler
	switch environment {
	case "development", "dev", "local":
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
