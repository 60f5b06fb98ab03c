// Package logging provides the structured logger shared by the engine's
// components.
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

// LogLevel represents different logging levels
type LogLevel int

// Supported log levels, lowest first.
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the lower-case level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "info"
	}
}

func (l LogLevel) slog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger provides structured logging. A Logger with no backing slog.Logger
// discards everything, so the zero value and nil are both usable.
type Logger struct {
	logger *slog.Logger
	fields []any
}

// LogConfig holds configuration for the logger.
type LogConfig struct {
	// Level sets the minimum log level.
	Level LogLevel
	// JSON selects the JSON handler instead of the text handler.
	JSON bool
	// EnableCallerInfo includes file and line number in logs.
	EnableCallerInfo bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultLogConfig returns a default logging configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: LogLevelInfo}
}

// NewLogger creates a new structured logger with the given configuration.
func NewLogger(config LogConfig) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     config.Level.slog(),
		AddSource: config.EnableCallerInfo,
	}

	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &Logger{logger: slog.New(handler)}
}

// NewNopLogger creates a no-op logger that discards all log messages.
func NewNopLogger() *Logger {
	return &Logger{}
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args []any) {
	if l == nil || l.logger == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.logger.Enabled(ctx, level) {
		return
	}

	allArgs := make([]any, len(l.fields)+len(args))
	copy(allArgs, l.fields)
	copy(allArgs[len(l.fields):], args)
	l.logger.Log(ctx, level, msg, allArgs...)
}

// Debug logs debug-level messages
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args)
}

// Info logs info-level messages
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args)
}

// Warn logs warning-level messages
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args)
}

// Error logs error-level messages
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args)
}

// With returns a logger with additional context fields
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.logger == nil {
		return l
	}

	fields := make([]any, len(l.fields)+len(args))
	copy(fields, l.fields)
	copy(fields[len(l.fields):], args)
	return &Logger{logger: l.logger, fields: fields}
}

// WithOperation returns a logger with operation context
func (l *Logger) WithOperation(operation string) *Logger {
	return l.With("operation", operation)
}

// WithPlatform returns a logger with platform context
func (l *Logger) WithPlatform(platform string) *Logger {
	return l.With("platform", platform)
}

// Slog exposes the backing slog.Logger. It returns a discarding logger for
// a no-op Logger.
func (l *Logger) Slog() *slog.Logger {
	if l == nil || l.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.logger.With(l.fields...)
}

// LogCacheHit logs a cache hit event.
func LogCacheHit(ctx context.Context, logger *Logger, namespace, key string) {
	logger.Debug(ctx, "cache hit",
		"namespace", namespace,
		"key", key,
		"result", "hit")
}

// LogCacheMiss logs a cache miss event.
func LogCacheMiss(ctx context.Context, logger *Logger, namespace, key, reason string) {
	logger.Debug(ctx, "cache miss",
		"namespace", namespace,
		"key", key,
		"reason", reason,
		"result", "miss")
}

// LogCleanup logs cleanup operations.
func LogCleanup(ctx context.Context, logger *Logger, entriesRemoved int, duration time.Duration) {
	logger.Info(ctx, "cache cleanup completed",
		"entries_removed", entriesRemoved,
		"duration_ms", duration.Milliseconds())
}

// LogRecovered logs a failure that was absorbed into a valid result.
func LogRecovered(ctx context.Context, logger *Logger, msg string, err error, args ...any) {
	fields := append([]any{"error", errString(err)}, args...)
	logger.Warn(ctx, msg, fields...)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ParseLogLevel parses a string log level into a LogLevel.
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LogLevelDebug, nil
	case "info", "":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}
