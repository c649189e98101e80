package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/exegesis-backend/internal/config"
)

// NewLogger builds the process logger for component (server, botctl,
// cleanup) and installs it with slog.SetDefault. Every record carries the
// component and the build version so lines from the bot's binaries can be
// told apart in one log stream.
//
// Format "json" is for production; anything else is text with source
// locations. Output is os.Stderr.
func NewLogger(cfg config.LogConfig, component string) *slog.Logger {
	logger := newLogger(os.Stderr, cfg, component)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig, component string) *slog.Logger {
	isJSON := strings.EqualFold(cfg.Format, "json")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !isJSON,
	}

	var handler slog.Handler
	if isJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("component", component),
		slog.String("version", Version),
	)
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
