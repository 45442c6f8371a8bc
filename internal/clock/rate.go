package clock

import (
	"math"
	"math/big"
	"time"

	"github.com/msto63/deepclock/pkg/instant"
	"github.com/msto63/deepclock/pkg/progress"
)

// Derivative returns how fast the projected point moves, in years of
// projection per year of wall time, minus one. Zero means the projection
// keeps pace with the wall clock.
func Derivative(start, end, now time.Time) float64 {
	p := progress.Fraction(start, end, now)

	spanMs, _ := new(big.Float).SetInt(
		instant.DifferenceMs(instant.FromTime(start), instant.FromTime(end)),
	).Float64()

	// dT/dnow in years per millisecond
	perMs := 3 * progress.Steepness * math.Exp(progress.Offset) * p * p *
		math.Exp(progress.Steepness*p*p*p) / spanMs

	return perMs*float64(progress.MsPerYear) - 1
}

// Window is a span of time, From before To.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// EventsWindow returns [now - high% of ms, now - low% of ms], the span around
// the projected point that matching historical events are drawn from. The
// percentages are applied in integer arithmetic, truncating. ok is false
// when either end falls outside the native time range.
func EventsWindow(now time.Time, ms *big.Int, lowPercent, highPercent int64) (Window, bool) {
	back := func(percent int64) (time.Time, error) {
		offset := new(big.Int).Mul(ms, big.NewInt(percent))
		offset.Quo(offset, big.NewInt(100))
		return progress.Project(now, offset).Time()
	}

	from, err := back(highPercent)
	if err != nil {
		return Window{}, false
	}
	to, err := back(lowPercent)
	if err != nil {
		return Window{}, false
	}
	if to.Before(from) {
		from, to = to, from
	}
	return Window{From: from, To: to}, true
}
