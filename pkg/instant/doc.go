// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     instant
// Description: Extended-range instants with exact millisecond arithmetic
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

// Package instant stores points in time as a signed arbitrary-precision count
// of milliseconds since the Unix epoch.
//
// An Instant can lie billions of years away from the epoch. Arithmetic on it
// (AddMs, DifferenceMs) is exact at any magnitude and never fails. Only the
// conversion back to time.Time can fail: instants whose offset exceeds
// SafeRangeMs are reported with ErrOutOfRange, and Describe falls back to the
// raw millisecond count for them.
package instant
