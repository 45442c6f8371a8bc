// Package error provides structured error handling for deepclock.
//
// Package: error
// Title: Structured Errors
// Description: Errors carry a code, a severity derived from the code, free-form
//              details, the failing operation and a stack trace. They unwrap to
//              their cause, so sentinel errors stay visible to errors.Is.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Trimmed to the codes used by deepclock
//
// Usage:
//
//	import dcerr "github.com/msto63/deepclock/foundation/core/error"
//
//	err := dcerr.Wrap(ErrOutOfRange, "instant cannot be shown on the calendar").
//		WithCode(dcerr.CodeValueOutOfRange).
//		WithOperation("instant.Time").
//		WithDetail("kind", "magnitude")
//
//	if errors.Is(err, ErrOutOfRange) {
//		// fall back to a coarse description
//	}
package error
