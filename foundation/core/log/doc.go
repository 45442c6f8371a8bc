// Package log provides structured logging for deepclock.
//
// Package: log
// Title: Structured Logging
// Description: Levelled logger with contextual fields, JSON, text, console and
//              logfmt output, and integration with the structured error
//              package so error codes and severities reach the log line.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-19 v0.2.0: Connection IDs, synchronous writes only
//
// Usage:
//
//	logger := log.New().
//		WithLevel(log.LevelInfo).
//		WithFormat(log.FormatConsole).
//		WithField("component", "server")
//
//	logger.Info("client connected", log.String("remote", addr))
//	logger.LogError(err) // level follows the error severity
//
//	timer := logger.StartTimer("store.save")
//	// ... write the interval
//	timer.Stop()
//
// Most application code does not use this package directly but goes through
// pkg/core/logging, which builds loggers from configuration and offers a
// key/value call style.
package log
