// Copyright (c) 2026 Jeremy Hahn
// Copyright (c) 2026 Automate The Things, LLC
//
// This file is part of go-bucketmon.
//
// go-bucketmon is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package adapters provides the pluggable logging interface used by the
// pipeline components.
package adapters

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// DebugLevel for detailed debugging information.
	DebugLevel LogLevel = iota
	// InfoLevel for general informational messages.
	InfoLevel
	// WarnLevel for warning messages.
	WarnLevel
	// ErrorLevel for error messages.
	ErrorLevel
)

// Field represents a structured logging field (key-value pair).
type Field struct {
	Key   string
	Value any
}

// F is shorthand for constructing a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger defines the interface for pluggable logging implementations.
// Applications can implement this interface to integrate the library
// with their native logging frameworks (e.g., zap, zerolog, logrus).
type Logger interface {
	// Debug logs a debug-level message with optional fields.
	Debug(ctx context.Context, msg string, fields ...Field)

	// Info logs an info-level message with optional fields.
	Info(ctx context.Context, msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields.
	Warn(ctx context.Context, msg string, fields ...Field)

	// Error logs an error-level message with optional fields.
	Error(ctx context.Context, msg string, fields ...Field)

	// WithFields returns a new Logger with the given fields added to all
	// log entries.
	WithFields(fields ...Field) Logger
}

// DefaultLogger is a simple implementation using Go's standard slog package.
type DefaultLogger struct {
	logger *slog.Logger
	level  LogLevel
	fields []Field
}

// NewDefaultLogger creates a JSON logger writing to stdout at info level.
func NewDefaultLogger() Logger {
	return NewLogger(os.Stdout, InfoLevel)
}

// NewLogger creates a JSON logger writing to w at the given level.
func NewLogger(w io.Writer, level LogLevel) Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return &DefaultLogger{
		logger: slog.New(handler),
		level:  level,
	}
}

// Debug logs a debug-level message.
func (l *DefaultLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	if l.level <= DebugLevel {
		l.log(ctx, slog.LevelDebug, msg, fields...)
	}
}

// Info logs an info-level message.
func (l *DefaultLogger) Info(ctx context.Context, msg string, fields ...Field) {
	if l.level <= InfoLevel {
		l.log(ctx, slog.LevelInfo, msg, fields...)
	}
}

// Warn logs a warning-level message.
func (l *DefaultLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	if l.level <= WarnLevel {
		l.log(ctx, slog.LevelWarn, msg, fields...)
	}
}

// Error logs an error-level message.
func (l *DefaultLogger) Error(ctx context.Context, msg string, fields ...Field) {
	if l.level <= ErrorLevel {
		l.log(ctx, slog.LevelError, msg, fields...)
	}
}

// WithFields returns a new logger with additional fields.
func (l *DefaultLogger) WithFields(fields ...Field) Logger {
	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &DefaultLogger{
		logger: l.logger,
		level:  l.level,
		fields: newFields,
	}
}

func (l *DefaultLogger) log(ctx context.Context, level slog.Level, msg string, fields ...Field) {
	if ctx == nil {
		ctx = context.Background()
	}

	attrs := make([]slog.Attr, 0, len(l.fields)+len(fields))
	for _, f := range l.fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}

	l.logger.LogAttrs(ctx, level, msg, attrs...)
}

// NoOpLogger is a logger that discards all log messages. Useful for
// testing or when logging is not desired.
type NoOpLogger struct{}

// NewNoOpLogger creates a new no-op logger.
func NewNoOpLogger() Logger {
	return &NoOpLogger{}
}

// Debug discards the message.
func (n *NoOpLogger) Debug(ctx context.Context, msg string, fields ...Field) {}

// Info discards the message.
func (n *NoOpLogger) Info(ctx context.Context, msg string, fields ...Field) {}

// Warn discards the message.
func (n *NoOpLogger) Warn(ctx context.Context, msg string, fields ...Field) {}

// Error discards the message.
func (n *NoOpLogger) Error(ctx context.Context, msg string, fields ...Field) {}

// WithFields returns the same no-op logger.
func (n *NoOpLogger) WithFields(fields ...Field) Logger { return n }
