// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     progress
// Description: One full pass of the pipeline for a single reading of now
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package progress

import (
	"math"
	"math/big"
	"time"

	"github.com/msto63/deepclock/pkg/instant"
)

// Result holds the values of one evaluation. All fields derive from the same now.
type Result struct {
	Now       time.Time
	P         float64
	Years     float64
	Millis    *big.Int
	Projected instant.Instant
	// InRange reports whether Projected converts to time.Time.
	InRange bool
	// Display is the calendar rendering of Projected, or FormatFallback(Years).
	Display string
}

// ProjectedTime returns the projected instant as time.Time when it is in range.
func (r Result) ProjectedTime() (time.Time, bool) {
	if !r.InRange {
		return time.Time{}, false
	}
	t, err := r.Projected.Time()
	return t, err == nil
}

// Evaluate runs fraction, duration, conversion and projection for now.
// A non-finite year count skips the projection: Projected stays at now and
// Display uses the fallback text.
func Evaluate(start, end, now time.Time) Result {
	p := Fraction(start, end, now)
	years := DurationYears(p)

	r := Result{
		Now:       now,
		P:         p,
		Years:     years,
		Millis:    new(big.Int),
		Projected: instant.FromTime(now),
	}

	if math.IsInf(years, 0) || math.IsNaN(years) {
		r.Display = FormatFallback(years)
		return r
	}

	r.Millis = DurationMs(years)
	r.Projected = Project(now, r.Millis)

	if t, err := r.Projected.Time(); err == nil {
		r.InRange = true
		r.Display = t.Format(instant.DisplayLayout)
	} else {
		r.Display = FormatFallback(years)
	}
	return r
}
