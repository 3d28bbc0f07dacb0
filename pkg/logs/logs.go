// Package logs builds the process slog.Logger from the logging section of
// the config.
package logs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pulseai/pulsedesk/config"
)

// New returns a logger writing to every configured sink. Stdout is used
// when no sink is enabled. A Loki sink that cannot be built is skipped.
func New(cfg *config.Config) *slog.Logger {
	out := cfg.Logging.Output
	level := parseLevel(cfg.Logging.Level)
	dev := strings.EqualFold(cfg.Server.Environment, "development")

	var handlers []slog.Handler
	if w := localWriter(out); w != nil {
		handlers = append(handlers, localHandler(w, cfg.Logging.Format, level, dev))
	}
	if out.Loki.Enabled {
		h, err := newLokiHandler(cfg, level)
		if err != nil {
			slog.Error("loki handler disabled", "error", err)
		} else {
			handlers = append(handlers, h)
		}
	}

	return slog.New(combine(handlers, level)).With(
		slog.String("service", cfg.Observability.ServiceName),
		slog.String("version", cfg.Observability.ServiceVersion),
		slog.String("env", cfg.Server.Environment),
	)
}

func localWriter(out config.OutputConfig) io.Writer {
	var ws []io.Writer
	if out.Stdout || (!out.File.Enabled && !out.Loki.Enabled) {
		ws = append(ws, os.Stdout)
	}
	if f := out.File; f.Enabled {
		ws = append(ws, &lumberjack.Logger{
			Filename:   f.Path,
			MaxSize:    f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAge:     f.MaxAgeDays,
			Compress:   f.Compress,
		})
	}
	switch len(ws) {
	case 0:
		return nil
	case 1:
		return ws[0]
	default:
		return io.MultiWriter(ws...)
	}
}

// localHandler prints text only in development unless json is requested.
func localHandler(w io.Writer, format string, level slog.Level, dev bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, AddSource: dev}
	if dev && !strings.EqualFold(format, "json") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func combine(handlers []slog.Handler, level slog.Level) slog.Handler {
	switch len(handlers) {
	case 0:
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case 1:
		return handlers[0]
	default:
		return &multiHandler{handlers: handlers}
	}
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
