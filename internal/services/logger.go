// File: internal/services/logger.go
package services

import (
	"log/slog"
	"os"
	"strings"
)

// Logger defines the common logging interface used across services.
type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Debug(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
}

type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) Info(msg string, keysAndValues ...any)  { s.l.Info(msg, keysAndValues...) }
func (s *slogLogger) Error(msg string, keysAndValues ...any) { s.l.Error(msg, keysAndValues...) }
func (s *slogLogger) Debug(msg string, keysAndValues ...any) { s.l.Debug(msg, keysAndValues...) }
func (s *slogLogger) Warn(msg string, keysAndValues ...any)  { s.l.Warn(msg, keysAndValues...) }

// NoOpLogger is a logger that does nothing (for testing).
type NoOpLogger struct{}

func (NoOpLogger) Info(msg string, keysAndValues ...any)  {}
func (NoOpLogger) Error(msg string, keysAndValues ...any) {}
func (NoOpLogger) Debug(msg string, keysAndValues ...any) {}
func (NoOpLogger) Warn(msg string, keysAndValues ...any)  {}

// NewLogger builds a logger for the named service. Production environments
// get structured JSON output, everything else a human-readable text handler.
// The level comes from LOG_LEVEL, defaulting to INFO.
func NewLogger(service string) Logger {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "test" {
		return NoOpLogger{}
	}

	level := slog.LevelInfo
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return &slogLogger{l: slog.New(handler).With("service", service)}
}
