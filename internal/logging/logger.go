package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with the fields save operations report.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to w. format is "text" or "json".
func New(w io.Writer, format string, level slog.Level) (*Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return &Logger{Logger: slog.New(h)}, nil
}

// NewTextLogger creates a Logger that outputs human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))}
}

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// WithPath tags every record with the save file path.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{Logger: l.Logger.With("path", path)}
}

// LogLoad logs reading and decoding a save.
func (l *Logger) LogLoad(ctx context.Context, path string, size int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"path", path,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "load completed",
		"path", path,
		"bytes", size,
		"elapsed", elapsed,
	)
}

// LogStore logs encoding and writing a save.
func (l *Logger) LogStore(ctx context.Context, path string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "store failed",
			"path", path,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "store completed",
		"path", path,
		"bytes", size,
	)
}

// LogBackup logs a compressed backup.
func (l *Logger) LogBackup(ctx context.Context, path string, raw, compressed int, err error) {
	if err != nil {
		l.WarnContext(ctx, "backup failed",
			"path", path,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "backup written",
		"path", path,
		"raw", raw,
		"compressed", compressed,
	)
}
