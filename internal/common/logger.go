package common

import (
	"log/slog"
	"os"
)

// SetupLogger installs the process-wide logger. Format is "json" for
// machine-readable output or "console" for humans; anything else falls
// back to console.
func SetupLogger(level slog.Level, format string) error {
	slog.SetDefault(slog.New(newHandler(level, format)))
	return nil
}

func newHandler(level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.NewTextHandler(os.Stderr, opts)
}
