// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     progress
// Description: Progress fraction, duration curve and projection
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

// Package progress maps the position of "now" inside an interval to a span of
// years and projects that span backwards from now.
//
// The functions are pure. Callers read the clock once per refresh and feed the
// same now into Fraction and Project, or use Evaluate which does both.
package progress

import (
	"math"
	"math/big"
	"time"

	"github.com/msto63/deepclock/pkg/instant"
)

// Curve constants of T(p) = exp(Steepness*p^3 + Offset) - exp(Offset).
const (
	Steepness = 20.3444
	Offset    = 3.0
)

// MsPerYear is the length of a mean Gregorian year, 365.2425 days, in milliseconds.
const MsPerYear int64 = 31_556_952_000

var msPerYear = big.NewInt(MsPerYear)

// Fraction returns (now - start) / (end - start). The result is not clamped:
// values below 0 or above 1 extrapolate the interval. start == end is a caller
// error and yields ±Inf or NaN.
func Fraction(start, end, now time.Time) float64 {
	s := instant.FromTime(start)
	elapsed := instant.DifferenceMs(s, instant.FromTime(now))
	total := instant.DifferenceMs(s, instant.FromTime(end))

	num, _ := new(big.Float).SetInt(elapsed).Float64()
	den, _ := new(big.Float).SetInt(total).Float64()
	return num / den
}

// DurationYears evaluates the duration curve at p. T(0) is 0 and T grows
// monotonically and steeply towards p = 1.
func DurationYears(p float64) float64 {
	return math.Exp(Steepness*p*p*p+Offset) - math.Exp(Offset)
}

// DurationMs converts a year count to milliseconds. Whole years are scaled in
// integer arithmetic; only the fractional year goes through float64 and is
// rounded to the nearest millisecond once. years must be finite.
func DurationMs(years float64) *big.Int {
	if math.IsInf(years, 0) || math.IsNaN(years) {
		panic("progress: DurationMs of non-finite year count")
	}

	whole, frac := math.Modf(years)

	wholeYears, _ := new(big.Float).SetFloat64(whole).Int(nil)
	ms := wholeYears.Mul(wholeYears, msPerYear)

	fracMs := math.Round(frac * float64(MsPerYear))
	return ms.Add(ms, big.NewInt(int64(fracMs)))
}

// Project returns the instant ms milliseconds before now.
func Project(now time.Time, ms *big.Int) instant.Instant {
	return instant.FromTime(now).AddMs(new(big.Int).Neg(ms))
}
