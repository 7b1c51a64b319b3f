package app

import (
	"io"
	"log/slog"
	"strings"

	"github.com/heartmarshall/dicionario-backend/internal/config"
)

// NewLogger builds the process logger. Format "json" selects the JSON
// handler, anything else the text handler with source locations. The logger
// is injected into components rather than installed as the slog default.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	jsonFormat := strings.EqualFold(cfg.Format, "json")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !jsonFormat,
	}

	if jsonFormat {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
