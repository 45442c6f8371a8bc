// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating loggers from configuration
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	dclog "github.com/msto63/deepclock/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component name, shown as the logger name
	Name string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: json, text, console or logfmt (default: console)
	Format string

	// Output writer (default: os.Stderr)
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer

	// Caller adds file:line to every entry
	Caller bool
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "info",
		Format: "console",
	}
}

// NewLogger creates a new Foundation logger.
// Unknown levels fall back to info, unknown formats to console.
func NewLogger(cfg LoggerConfig) *dclog.Logger {
	level := parseLevel(cfg.Level)

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	format, err := dclog.ParseFormat(cfg.Format)
	if err != nil {
		format = dclog.FormatConsole
	}

	return dclog.NewWithConfig(dclog.Config{
		Level:        level,
		Format:       format,
		Output:       output,
		Name:         cfg.Name,
		EnableCaller: cfg.Caller,
	})
}

// NewSimpleLogger creates a console logger at info level
func NewSimpleLogger(name string) *dclog.Logger {
	return NewLogger(DefaultLoggerConfig(name))
}

// parseLevel converts a string level to dclog.Level
func parseLevel(level string) dclog.Level {
	parsed, err := dclog.ParseLevel(level)
	if err != nil {
		return dclog.LevelInfo
	}
	return parsed
}
