// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     instant
// Description: Instant type, conversions and exact arithmetic
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package instant

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
)

// SafeRangeMs is the largest absolute millisecond offset that converts to a
// calendar time: 100,000,000 days on either side of the epoch.
const SafeRangeMs int64 = 8_640_000_000_000_000

// DisplayLayout renders in-range instants.
const DisplayLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrOutOfRange is returned when an instant cannot be represented as time.Time.
var ErrOutOfRange = errors.New("instant outside the native time range")

// Range check kinds, recorded in the "kind" detail of an out-of-range error.
const (
	KindMagnitude = "magnitude"
	KindCalendar  = "calendar"
)

var safeRange = big.NewInt(SafeRangeMs)

// Instant is an immutable point in time. The zero value is the Unix epoch.
type Instant struct {
	ms *big.Int
}

// FromMillis returns the instant ms milliseconds after the epoch.
// The argument is copied.
func FromMillis(ms *big.Int) Instant {
	if ms == nil {
		return Instant{}
	}
	return Instant{ms: new(big.Int).Set(ms)}
}

// FromMillisInt64 returns the instant ms milliseconds after the epoch.
func FromMillisInt64(ms int64) Instant {
	return Instant{ms: big.NewInt(ms)}
}

// FromTime returns the instant with the same millisecond offset as t.
// Sub-millisecond precision is dropped.
func FromTime(t time.Time) Instant {
	return FromMillisInt64(t.UnixMilli())
}

func (i Instant) millis() *big.Int {
	if i.ms == nil {
		return new(big.Int)
	}
	return i.ms
}

// Millis returns a copy of the offset from the epoch in milliseconds.
func (i Instant) Millis() *big.Int {
	return new(big.Int).Set(i.millis())
}

// IsSafe reports whether the offset lies within SafeRangeMs.
func (i Instant) IsSafe() bool {
	return new(big.Int).Abs(i.millis()).Cmp(safeRange) <= 0
}

// Time converts the instant to a UTC time.Time with the same millisecond offset.
// It fails with ErrOutOfRange when the magnitude exceeds SafeRangeMs or when the
// narrowed value does not survive the round trip through time.Time.
func (i Instant) Time() (time.Time, error) {
	ms := i.millis()
	if !i.IsSafe() {
		return time.Time{}, outOfRange(ms, KindMagnitude)
	}
	if !ms.IsInt64() {
		return time.Time{}, outOfRange(ms, KindCalendar)
	}

	narrowed := ms.Int64()
	t := time.UnixMilli(narrowed).UTC()
	if t.UnixMilli() != narrowed {
		return time.Time{}, outOfRange(ms, KindCalendar)
	}
	return t, nil
}

func outOfRange(ms *big.Int, kind string) error {
	return dcerr.Wrap(ErrOutOfRange, "convert instant to time").
		WithCode(dcerr.CodeValueOutOfRange).
		WithOperation("instant.Time").
		WithDetail("millis", ms.String()).
		WithDetail("kind", kind)
}

// AddMs returns the instant offset milliseconds later. Negative offsets move
// into the past. The receiver is not modified.
func (i Instant) AddMs(offset *big.Int) Instant {
	sum := new(big.Int).Set(i.millis())
	if offset != nil {
		sum.Add(sum, offset)
	}
	return Instant{ms: sum}
}

// DifferenceMs returns b - a in milliseconds.
func DifferenceMs(a, b Instant) *big.Int {
	return new(big.Int).Sub(b.millis(), a.millis())
}

// Cmp compares i and o and returns -1, 0 or +1.
func (i Instant) Cmp(o Instant) int {
	return i.millis().Cmp(o.millis())
}

// Equal reports whether i and o denote the same millisecond.
func (i Instant) Equal(o Instant) bool {
	return i.Cmp(o) == 0
}

// Describe renders the instant as an RFC 3339 timestamp with milliseconds when
// it converts to time.Time, and as its raw millisecond offset otherwise.
func (i Instant) Describe() string {
	t, err := i.Time()
	if err != nil {
		return fmt.Sprintf("instant(%s ms)", i.millis().String())
	}
	return t.Format(DisplayLayout)
}

// String implements fmt.Stringer.
func (i Instant) String() string {
	return i.Describe()
}

// MarshalText encodes the raw millisecond offset in decimal.
func (i Instant) MarshalText() ([]byte, error) {
	return []byte(i.millis().String()), nil
}
