// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     logging
// Description: Key/value logger used by the CLI, server, TUI and store
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package logging

import (
	dclog "github.com/msto63/deepclock/foundation/core/log"
)

// Logger wraps the Foundation logger with a key/value call style
type Logger struct {
	*dclog.Logger
	name string
}

// New creates a console logger at info level
func New(name string) *Logger {
	return &Logger{
		Logger: NewSimpleLogger(name),
		name:   name,
	}
}

// FromConfig creates a key/value logger from configuration
func FromConfig(cfg LoggerConfig) *Logger {
	return &Logger{
		Logger: NewLogger(cfg),
		name:   cfg.Name,
	}
}

// Wrap adapts an existing Foundation logger
func Wrap(base *dclog.Logger, name string) *Logger {
	return &Logger{Logger: base.WithName(name), name: name}
}

// Name returns the component name
func (l *Logger) Name() string {
	return l.name
}

// WithLevel returns a copy of the logger with a new minimum level.
// Level names are those of the [general] log_level setting; unknown names
// mean info.
func (l *Logger) WithLevel(level string) *Logger {
	return &Logger{
		Logger: l.Logger.WithLevel(parseLevel(level)),
		name:   l.name,
	}
}

// Named returns a child logger for a sub-component, e.g. "server.ws"
func (l *Logger) Named(component string) *Logger {
	name := component
	if l.name != "" {
		name = l.name + "." + component
	}
	return &Logger{
		Logger: l.Logger.WithName(name),
		name:   name,
	}
}

// With returns a logger that adds the key/value pairs to every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.WithFields(toFields(keysAndValues...)),
		name:   l.name,
	}
}

// Debug logs a debug message with key/value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key/value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key/value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key/value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to dclog.Fields.
// Non-string keys and a trailing key without value are dropped.
func toFields(keysAndValues ...interface{}) dclog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(dclog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
