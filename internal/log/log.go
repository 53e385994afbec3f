// Package log sets up the slog logger of the command-line tool.
package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger. Level is one of debug, info, warn or error and Format is console or json. A non-empty File adds a rotated JSON log file.
type Options struct {
	Level  string
	Format string
	File   string
}

// Logger wraps a slog.Logger together with its optional log file.
type Logger struct {
	*slog.Logger
	file *lj.Logger
}

// New returns a logger writing to w, and to a rotated file when opts.File is set.
func New(w io.Writer, opts Options) *Logger {
	lvl := ParseLevel(opts.Level)

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}

	l := &Logger{}
	if strings.TrimSpace(opts.File) != "" {
		l.file = &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		h = multi{h, slog.NewJSONHandler(l.file, &slog.HandlerOptions{Level: lvl})}
	}
	l.Logger = slog.New(h)
	return l
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel converts a level name to a slog.Level, unknown names give info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// multi sends records to all handlers.
type multi []slog.Handler

func (m multi) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multi) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (m multi) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make(multi, len(m))
	for i, h := range m {
		hs[i] = h.WithAttrs(attrs)
	}
	return hs
}

func (m multi) WithGroup(name string) slog.Handler {
	hs := make(multi, len(m))
	for i, h := range m {
		hs[i] = h.WithGroup(name)
	}
	return hs
}
