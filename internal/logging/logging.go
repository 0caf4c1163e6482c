// =============================================================================
// Order Document Generator - Logging
// =============================================================================
//
// The converters log through the small printf-style Logger interface. The
// default implementation is backed by log/slog with a text handler writing
// to the console and, optionally, to the configured log file.
//
// =============================================================================

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger is an interface for logging.
// Implement this interface to use a custom logger.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// ParseLevel maps a config level name to a slog level. Unknown names map
// to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

type slogLogger struct {
	l *slog.Logger
}

// New returns a Logger writing text records to w at or above level.
func New(w io.Writer, level slog.Level) Logger {
	return FromSlog(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// FromSlog wraps an existing slog.Logger.
func FromSlog(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) log(level slog.Level, msg string, args ...interface{}) {
	if !s.l.Enabled(context.Background(), level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	s.l.Log(context.Background(), level, msg)
}

func (s *slogLogger) Debug(msg string, args ...interface{}) { s.log(slog.LevelDebug, msg, args...) }
func (s *slogLogger) Info(msg string, args ...interface{})  { s.log(slog.LevelInfo, msg, args...) }
func (s *slogLogger) Warn(msg string, args ...interface{})  { s.log(slog.LevelWarn, msg, args...) }
func (s *slogLogger) Error(msg string, args ...interface{}) { s.log(slog.LevelError, msg, args...) }

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return New(io.Discard, slog.LevelError+1)
}

// Open builds the application logger. Records go to console and, when
// logFile is set, are appended to that file as well. The returned closer
// releases the file and is never nil.
func Open(logFile, level string, console io.Writer) (Logger, io.Closer, error) {
	lvl := ParseLevel(level)
	if logFile == "" {
		return New(console, lvl), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(io.MultiWriter(console, f), lvl), f, nil
}
