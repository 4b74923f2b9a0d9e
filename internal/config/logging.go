package config

import (
	"io"
	"log/slog"
	"strings"

	"toolstudio/internal/domain"
)

// NewLogger builds a slog.Logger from the infra config. Advisory log output
// goes to w (normally stderr) so it never collides with the marker line on
// stdout.
func NewLogger(infra domain.InfraConfig, w io.Writer) *slog.Logger {
	level := parseLevel(infra.LogLevel)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(infra.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
