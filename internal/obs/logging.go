// Package obs wires up structured logging and Prometheus metrics the
// way samirrijal-bilbopass's internal/pkg/logging and
// internal/pkg/telemetry do: a small SetupLogging() that installs a global
// slog default handler, plus a handful of promauto-registered
// collectors the Round Engine and HTTP surface record against.
package obs

import (
	"log/slog"
	"os"
	"strings"
)

// SetupLogging installs a global slog default logger. level is one of
// "debug", "info", "warn", "error" (default "info"); format is "json"
// (default) or "text".
func SetupLogging(level, format string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.ToLower(format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
