// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     clock
// Description: Snapshot of one refresh: projection plus every readout
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package clock

import (
	"encoding/json"
	"math"
	"time"

	"github.com/msto63/deepclock/foundation/utils/timex"
	"github.com/msto63/deepclock/pkg/core/config"
	"github.com/msto63/deepclock/pkg/progress"
)

// Options tune the cosmetic readouts of a snapshot.
type Options struct {
	Thresholds        Thresholds
	EventsLowPercent  int64
	EventsHighPercent int64
}

// DefaultOptions returns the stock options.
func DefaultOptions() Options {
	return Options{
		Thresholds:        DefaultThresholds(),
		EventsLowPercent:  95,
		EventsHighPercent: 105,
	}
}

// OptionsFromConfig builds options from the display section.
func OptionsFromConfig(cfg config.DisplayConfig) Options {
	return Options{
		Thresholds: Thresholds{
			TeaseMya:       cfg.TeaseMya,
			EarthFormedMya: cfg.EarthFormedMya,
			ImageSplitMya:  cfg.ImageSplitMya,
			CoarseStepMya:  cfg.CoarseStepMya,
			FineStepMya:    cfg.FineStepMya,
		},
		EventsLowPercent:  cfg.EventsLowPercent,
		EventsHighPercent: cfg.EventsHighPercent,
	}
}

// Snapshot is one refresh of the clock. Every field derives from the same
// reading of now.
type Snapshot struct {
	Interval Interval
	Now      time.Time
	P        float64
	Years    float64
	// Millis is the projected distance in milliseconds, as a decimal string.
	Millis string
	// Projected is the projected instant as produced by Instant.Describe.
	Projected string
	InRange   bool
	Display   string
	TimeAgo   string
	Remaining timex.Countdown
	// Derivative is the rate of the projection relative to wall time.
	Derivative float64
	Tier       Tier
	// Events is nil when the events window is not representable.
	Events *Window
}

// Compute evaluates the interval at now.
func Compute(iv Interval, now time.Time, opts Options) (Snapshot, error) {
	if err := iv.Validate(); err != nil {
		return Snapshot{}, err
	}

	r := progress.Evaluate(iv.Start, iv.End, now)

	s := Snapshot{
		Interval:   iv,
		Now:        now,
		P:          r.P,
		Years:      r.Years,
		Millis:     r.Millis.String(),
		Projected:  r.Projected.Describe(),
		InRange:    r.InRange,
		Display:    r.Display,
		Remaining:  timex.CountdownTo(now, iv.End),
		Derivative: Derivative(iv.Start, iv.End, now),
		Tier:       opts.Thresholds.Classify(r.Years),
	}

	s.TimeAgo = timeAgo(r, now)

	if finite(r.Years) {
		if w, ok := EventsWindow(now, r.Millis, opts.EventsLowPercent, opts.EventsHighPercent); ok {
			s.Events = &w
		}
	}

	return s, nil
}

// timeAgo renders the distance from the projection to now. Representable
// projections get a calendar breakdown, everything else the coarse text.
func timeAgo(r progress.Result, now time.Time) string {
	if !finite(r.Years) {
		return progress.FormatFallback(r.Years)
	}
	projected, ok := r.ProjectedTime()
	if !ok {
		return progress.FormatFallback(r.Years) + " ago"
	}
	if projected.After(now) {
		return timex.Diff(now, projected).String() + " from now"
	}
	return timex.Diff(projected, now).String() + " ago"
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// nullable maps non-finite values to JSON null.
func nullable(f float64) *float64 {
	if !finite(f) {
		return nil
	}
	return &f
}

type snapshotJSON struct {
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Now        time.Time       `json:"now"`
	P          *float64        `json:"p"`
	Years      *float64        `json:"years"`
	Millis     string          `json:"millis"`
	Projected  string          `json:"projected"`
	InRange    bool            `json:"in_range"`
	Display    string          `json:"display"`
	TimeAgo    string          `json:"time_ago"`
	Remaining  timex.Countdown `json:"remaining"`
	Derivative *float64        `json:"derivative"`
	Tier       Tier            `json:"tier"`
	Events     *Window         `json:"events,omitempty"`
}

// MarshalJSON encodes the snapshot. NaN and infinite numbers become null.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		Start:      s.Interval.Start.UTC(),
		End:        s.Interval.End.UTC(),
		Now:        s.Now.UTC(),
		P:          nullable(s.P),
		Years:      nullable(s.Years),
		Millis:     s.Millis,
		Projected:  s.Projected,
		InRange:    s.InRange,
		Display:    s.Display,
		TimeAgo:    s.TimeAgo,
		Remaining:  s.Remaining,
		Derivative: nullable(s.Derivative),
		Tier:       s.Tier,
		Events:     s.Events,
	})
}

// Clock takes snapshots against a source of now.
type Clock struct {
	source Source
	opts   Options
}

// New returns a clock reading now from source.
func New(source Source, opts Options) *Clock {
	if source == nil {
		source = SystemClock{}
	}
	return &Clock{source: source, opts: opts}
}

// Source returns the clock's source of now.
func (c *Clock) Source() Source {
	return c.source
}

// Snapshot evaluates iv at the source's current reading.
func (c *Clock) Snapshot(iv Interval) (Snapshot, error) {
	return Compute(iv, c.source.Now(), c.opts)
}

// At evaluates iv at an explicit now, keeping the clock's options.
func (c *Clock) At(iv Interval, now time.Time) (Snapshot, error) {
	return Compute(iv, now, c.opts)
}
