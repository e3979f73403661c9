package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"worldpop/internal/config"
)

// New builds a structured logger from the logging section of the config.
// A nil writer logs to stderr.
func New(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Or returns l, or slog.Default() when l is nil.
func Or(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// Corrections logs every clamped configuration value once at warn level.
func Corrections(l *slog.Logger, corrections []config.Correction) {
	for _, c := range corrections {
		l.Warn("config value clamped", "field", c.Field, "value", c.Value, "replacement", c.Replacement)
	}
}
