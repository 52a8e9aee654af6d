// Package logging configures structured logging with log/slog.
//
// Interactive runs get colored output via tint; setting SETTLER_LOG_JSON=1
// switches to JSON for log collectors.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default slog logger at the given level ("debug",
// "info", "warn", "error"; anything else means info).
func Setup(level string) {
	lvl := parseLevel(level)
	var handler slog.Handler
	if os.Getenv("SETTLER_LOG_JSON") != "" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      lvl,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
