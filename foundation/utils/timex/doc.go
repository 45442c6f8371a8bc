// Package timex implements the time helpers used around the deepclock core.
//
// Package: timex
// Title: Time Utilities for deepclock
// Description: Parsing of user-supplied dates in many common layouts,
//              human-readable duration formatting, calendar differences for
//              "time ago" readouts and day/hour/minute/second countdowns.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive time operations
// - 2026-10-19 v0.2.0: Reduced to the helpers deepclock needs
//
// Package Overview:
//
// # Parsing
//
//   - Parse: tries RFC3339, ISO8601, business, short, display and compact
//     layouts in turn; values without a zone are read as UTC
//   - ParseUnixMilli: a decimal count of milliseconds since the epoch
//
// # Formatting
//
//   - FormatDuration: "1 day, 2 hours, 3 minutes, and 4 seconds"
//   - FormatDurationCompact: "1d 2h 30m 45s"
//
// # Calendar differences
//
// Diff splits the distance between two times into years, months, days and
// clock units the way a person reads a calendar:
//
//	d := timex.Diff(projected, now)
//	fmt.Println(d.String() + " ago")
//
// # Countdowns
//
// CountdownTo reports the time left until a deadline as whole days, hours,
// minutes and seconds:
//
//	fmt.Println(timex.CountdownTo(time.Now(), end)) // 12d 03h 04m 05s
//
// These helpers operate on time.Time and therefore only on the range Go can
// represent. Instants outside that range are handled by pkg/instant.
package timex
