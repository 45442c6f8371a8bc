// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     clock
// Description: The start/end interval a reading is taken against
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package clock

import (
	"time"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
)

// Interval is the span that progress is measured across.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsSet reports whether both bounds are present.
func (iv Interval) IsSet() bool {
	return !iv.Start.IsZero() && !iv.End.IsZero()
}

// Validate checks that both bounds are set and differ. A reversed interval
// is valid; progress then runs from 1 down to 0 as now moves forward.
func (iv Interval) Validate() error {
	if !iv.IsSet() {
		return dcerr.New("interval needs both a start and an end").
			WithCode(dcerr.CodeInvalidInput).
			WithOperation("clock.Interval.Validate")
	}
	if iv.End.Equal(iv.Start) {
		return dcerr.Newf("interval end %s equals its start %s",
			iv.End.UTC().Format(time.RFC3339), iv.Start.UTC().Format(time.RFC3339)).
			WithCode(dcerr.CodeInvalidInput).
			WithOperation("clock.Interval.Validate").
			WithDetail("start", iv.Start.UTC().Format(time.RFC3339Nano)).
			WithDetail("end", iv.End.UTC().Format(time.RFC3339Nano))
	}
	return nil
}

// Length returns End - Start. Like time.Time.Sub it saturates at about
// 292 years, and it is negative for a reversed interval.
func (iv Interval) Length() time.Duration {
	return iv.End.Sub(iv.Start)
}
