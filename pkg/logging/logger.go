// Package logging provides the application's structured logger: slog with
// a JSON handler and a component attribute on every record.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger so packages depend on one logging type.
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger writing to stdout at the given level. Unknown
// level strings fall back to info.
func New(level string) *Logger {
	return NewWithOutput(level, os.Stdout)
}

// NewWithOutput creates a JSON logger writing to w. Tests pass a buffer or
// io.Discard.
func NewWithOutput(level string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, opts))}
}

// Default returns an info-level stdout logger.
func Default() *Logger {
	return New("info")
}

// Discard returns a logger that drops everything. Useful in tests that
// exercise error paths without polluting output.
func Discard() *Logger {
	return NewWithOutput("error", io.Discard)
}

// Component returns a child logger tagged with a component name, so log
// lines can be filtered by the subsystem that emitted them.
func (l *Logger) Component(name string) *Logger {
	return &Logger{Logger: l.Logger.With("component", name)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
