package core

import "github.com/rs/zerolog"

// Logger is the interface for logging operations
type Logger interface {
	// Debug logs a debug message
	Debug(msg string, keyvals ...any)
	// Info logs an informational message
	Info(msg string, keyvals ...any)
	// Warn logs a warning message
	Warn(msg string, keyvals ...any)
	// Error logs an error message
	Error(msg string, keyvals ...any)
	// With returns a new logger with additional key-value pairs
	With(keyvals ...any) Logger
}

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger wraps l so it can be passed to the store and ranker.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLogger{log: l}
}

// Debug logs a debug message
func (l *zerologLogger) Debug(msg string, keyvals ...any) {
	emit(l.log.Debug(), msg, keyvals)
}

// Info logs an informational message
func (l *zerologLogger) Info(msg string, keyvals ...any) {
	emit(l.log.Info(), msg, keyvals)
}

// Warn logs a warning message
func (l *zerologLogger) Warn(msg string, keyvals ...any) {
	emit(l.log.Warn(), msg, keyvals)
}

// Error logs an error message
func (l *zerologLogger) Error(msg string, keyvals ...any) {
	emit(l.log.Error(), msg, keyvals)
}

// With returns a new logger with additional key-value pairs
func (l *zerologLogger) With(keyvals ...any) Logger {
	if len(keyvals) == 0 {
		return l
	}
	return &zerologLogger{log: l.log.With().Fields(keyvals).Logger()}
}

// emit attaches keyvals to e and sends it. A trailing key without value is dropped.
func emit(e *zerolog.Event, msg string, keyvals []any) {
	if e == nil {
		return
	}
	if len(keyvals)%2 != 0 {
		keyvals = keyvals[:len(keyvals)-1]
	}
	if len(keyvals) > 0 {
		e = e.Fields(keyvals)
	}
	e.Msg(msg)
}

// nopLogger is a no-op logger that discards all log messages
type nopLogger struct{}

// Debug is a no-op
func (nopLogger) Debug(msg string, keyvals ...any) {}

// Info is a no-op
func (nopLogger) Info(msg string, keyvals ...any) {}

// Warn is a no-op
func (nopLogger) Warn(msg string, keyvals ...any) {}

// Error is a no-op
func (nopLogger) Error(msg string, keyvals ...any) {}

// With returns a new nopLogger
func (n nopLogger) With(keyvals ...any) Logger {
	return n
}

// NopLogger returns a logger that discards all messages
func NopLogger() Logger {
	return nopLogger{}
}
