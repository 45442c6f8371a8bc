// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     progress
// Description: Coarse year counts for instants off the calendar
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package progress

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatFallback renders a year count by magnitude: whole years below a
// thousand, comma-grouped whole years below a million, then decimal millions
// and billions. An infinite count is "beyond measure" and NaN, which only an
// empty interval produces, is "undefined".
//
//	500           -> "500 years"
//	1500          -> "1,500 years"
//	2_500_000     -> "2.5 million years"
//	3_000_000_000 -> "3 billion years"
func FormatFallback(years float64) string {
	switch {
	case math.IsNaN(years):
		return "undefined"
	case math.IsInf(years, 0):
		return "beyond measure"
	case years < 1_000_000:
		return printer.Sprintf("%d years", int64(years))
	case years < 1_000_000_000:
		return formatScaled(years/1_000_000) + " million years"
	default:
		return formatScaled(years/1_000_000_000) + " billion years"
	}
}

func formatScaled(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
