package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetLogLevel installs the default logger. LOG_LEVEL picks the level,
// LOG_FORMAT=json switches from text to JSON output.
func SetLogLevel() {
	level, ok := parseLogLevel(os.Getenv("LOG_LEVEL"))
	if !ok {
		slog.Error("Invalid log level", "level", os.Getenv("LOG_LEVEL"))
		os.Exit(1)
	}

	slog.SetDefault(newLogger(os.Stderr, level, os.Getenv("LOG_FORMAT") == "json"))
}

func parseLogLevel(envLevel string) (slog.Level, bool) {
	switch strings.ToUpper(envLevel) {
	case "", "INFO":
		return slog.LevelInfo, true
	case "DEBUG":
		return slog.LevelDebug, true
	case "WARN":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func newLogger(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
