// Package logging configures the process-wide structured logger. All
// packages log through log/slog; this is the only place the output format
// and level are decided.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON slog handler on stdout as the default logger and
// returns it for callers that want an explicit handle.
func Setup(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}
