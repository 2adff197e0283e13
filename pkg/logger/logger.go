// Package logger builds the application slog.Logger.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	slogsentry "github.com/samber/slog-sentry/v2"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/painnoll/painnoll-bot/pkg/config"
)

// New creates a logger according to the supplied configuration. Output goes to
// stdout and, when a file is configured, to a size-rotated log file. Warn and
// error records are additionally forwarded to Sentry when reporting is enabled.
func New(cfg config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Logger.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.Logger.File,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Logger.Level)}

	var handler slog.Handler
	if cfg.Logger.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	handler = NewMaskingHandler(handler)

	if cfg.Sentry.Enabled {
		sentryHandler := slogsentry.Option{Level: slog.LevelWarn}.NewSentryHandler(context.Background())
		handler = newTeeHandler(handler, sentryHandler)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
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

// teeHandler delivers every record to both wrapped handlers.
type teeHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

func newTeeHandler(primary, secondary slog.Handler) *teeHandler {
	return &teeHandler{primary: primary, secondary: secondary}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level) || h.secondary.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	if h.primary.Enabled(ctx, record.Level) {
		firstErr = h.primary.Handle(ctx, record.Clone())
	}
	if h.secondary.Enabled(ctx, record.Level) {
		if err := h.secondary.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{primary: h.primary.WithAttrs(attrs), secondary: h.secondary.WithAttrs(attrs)}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{primary: h.primary.WithGroup(name), secondary: h.secondary.WithGroup(name)}
}
