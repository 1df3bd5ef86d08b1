package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"loan-engine/internal/config"

	"github.com/go-chi/traceid"
	"github.com/lmittmann/tint"
)

func NewLogger(cfg config.LoggerConfig) *slog.Logger {
	logger := slog.New(newHandler(os.Stdout, cfg))
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(w io.Writer, cfg config.LoggerConfig) slog.Handler {
	level := parseLevel(cfg.Level)

	var handler slog.Handler
	if strings.EqualFold(cfg.Encoding, "text") {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  level == slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: level == slog.LevelDebug,
		})
	}
	return traceid.LogHandler(handler)
}
