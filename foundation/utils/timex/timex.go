// File: timex.go
// Title: Core Time Utilities
// Description: Time helpers used around the deepclock core: multi-layout
//              parsing of user-supplied dates, human-readable durations,
//              calendar differences for "time ago" readouts and countdowns.
// Author: msto63
// Version: v0.2.1
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive time utilities
// - 2025-07-26 v0.1.1: Added FormatDurationCompact function
// - 2026-10-19 v0.2.0: Dropped business-day helpers, added CalendarDiff and Countdown
// - 2026-10-19 v0.2.1: Parse falls back to epoch milliseconds

package timex

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Common time formats accepted by Parse
const (
	ISO8601         = "2006-01-02T15:04:05Z07:00"
	ISO8601Date     = "2006-01-02"
	ISO8601DateTime = "2006-01-02T15:04:05"
	ISO8601Minute   = "2006-01-02T15:04"

	BusinessDateTime = "2006-01-02 15:04:05"
	BusinessMinute   = "2006-01-02 15:04"

	DisplayDate     = "January 2, 2006"
	DisplayDateTime = "January 2, 2006 at 3:04 PM"

	ShortDate     = "01/02/2006"
	ShortDateTime = "01/02/2006 15:04"

	CompactDate     = "20060102"
	CompactDateTime = "20060102150405"

	LogTimestamp = "2006-01-02 15:04:05.000"
)

var parseLayouts = []string{
	time.RFC3339Nano,
	ISO8601,
	ISO8601DateTime,
	ISO8601Minute,
	BusinessDateTime,
	BusinessMinute,
	ISO8601Date,
	LogTimestamp,
	ShortDateTime,
	ShortDate,
	DisplayDateTime,
	DisplayDate,
	CompactDateTime,
	CompactDate,
	time.RFC1123,
	time.RFC1123Z,
}

// ===============================
// Parsing Functions
// ===============================

// Parse attempts to parse a time string using common formats.
// Values without a zone are read as UTC. A bare integer that matches no
// layout is read as milliseconds since the epoch.
func Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}

	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	if t, err := ParseUnixMilli(value); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse time string: %s", value)
}

// ParseUnixMilli parses a decimal count of milliseconds since the epoch.
func ParseUnixMilli(value string) (time.Time, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid millisecond timestamp %q: %w", value, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// ===============================
// Formatting Functions
// ===============================

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "0 seconds"
	}

	if d < 0 {
		return "-" + FormatDuration(-d)
	}

	var parts []string

	if days := int(d.Hours() / 24); days > 0 {
		parts = append(parts, fmt.Sprintf("%d day%s", days, pluralSuffix(days)))
		d -= time.Duration(days) * 24 * time.Hour
	}

	if hours := int(d.Hours()); hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hour%s", hours, pluralSuffix(hours)))
		d -= time.Duration(hours) * time.Hour
	}

	if minutes := int(d.Minutes()); minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minute%s", minutes, pluralSuffix(minutes)))
		d -= time.Duration(minutes) * time.Minute
	}

	if seconds := int(d.Seconds()); seconds > 0 {
		parts = append(parts, fmt.Sprintf("%d second%s", seconds, pluralSuffix(seconds)))
		d -= time.Duration(seconds) * time.Second
	}

	if len(parts) == 0 {
		if ms := int(d.Milliseconds()); ms > 0 {
			parts = append(parts, fmt.Sprintf("%d millisecond%s", ms, pluralSuffix(ms)))
		}
	}

	return joinParts(parts, "0 seconds")
}

// FormatDurationCompact formats a duration in compact format (1d 2h 30m 45s)
func FormatDurationCompact(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	if d < 0 {
		return "-" + FormatDurationCompact(-d)
	}

	var parts []string

	if days := int(d.Hours() / 24); days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
		d -= time.Duration(days) * 24 * time.Hour
	}

	// Once a larger unit is shown, every smaller unit down to seconds is shown too.
	if hours := int(d.Hours()); hours > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
		d -= time.Duration(hours) * time.Hour
	}

	if minutes := int(d.Minutes()); minutes > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
		d -= time.Duration(minutes) * time.Minute
	}

	if seconds := int(d.Seconds()); seconds > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
		d -= time.Duration(seconds) * time.Second
	}

	if ms := d.Milliseconds(); ms > 0 {
		parts = append(parts, fmt.Sprintf("%dms", ms))
	}

	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func joinParts(parts []string, empty string) string {
	switch len(parts) {
	case 0:
		return empty
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
}

// ===============================
// Calendar Differences
// ===============================

// CalendarDiff is the difference between two times in calendar units.
// All fields share the sign of the difference.
type CalendarDiff struct {
	Years        int
	Months       int
	Days         int
	Hours        int
	Minutes      int
	Seconds      int
	Milliseconds int
}

// Diff returns the calendar difference to - from. Whole years are counted
// first, then months and days, and the remainder below one day is split into
// clock units. Both times are compared in UTC.
func Diff(from, to time.Time) CalendarDiff {
	from, to = from.UTC(), to.UTC()
	if to.Before(from) {
		return Diff(to, from).negate()
	}

	var d CalendarDiff

	d.Years = to.Year() - from.Year()
	if from.AddDate(d.Years, 0, 0).After(to) {
		d.Years--
	}
	anchor := from.AddDate(d.Years, 0, 0)

	for anchor.AddDate(0, d.Months+1, 0).Compare(to) <= 0 {
		d.Months++
	}
	anchor = anchor.AddDate(0, d.Months, 0)

	for anchor.AddDate(0, 0, d.Days+1).Compare(to) <= 0 {
		d.Days++
	}
	anchor = anchor.AddDate(0, 0, d.Days)

	rest := to.Sub(anchor)
	d.Hours = int(rest / time.Hour)
	rest -= time.Duration(d.Hours) * time.Hour
	d.Minutes = int(rest / time.Minute)
	rest -= time.Duration(d.Minutes) * time.Minute
	d.Seconds = int(rest / time.Second)
	rest -= time.Duration(d.Seconds) * time.Second
	d.Milliseconds = int(rest / time.Millisecond)

	return d
}

func (d CalendarDiff) negate() CalendarDiff {
	return CalendarDiff{
		Years:        -d.Years,
		Months:       -d.Months,
		Days:         -d.Days,
		Hours:        -d.Hours,
		Minutes:      -d.Minutes,
		Seconds:      -d.Seconds,
		Milliseconds: -d.Milliseconds,
	}
}

// IsZero reports whether every field is zero.
func (d CalendarDiff) IsZero() bool {
	return d == CalendarDiff{}
}

// String lists the non-zero units, largest first, e.g.
// "235 years 4 months 1 day 6 hours 3 seconds 120 milliseconds".
func (d CalendarDiff) String() string {
	units := []struct {
		n    int
		name string
	}{
		{d.Years, "year"},
		{d.Months, "month"},
		{d.Days, "day"},
		{d.Hours, "hour"},
		{d.Minutes, "minute"},
		{d.Seconds, "second"},
		{d.Milliseconds, "millisecond"},
	}

	var parts []string
	for _, u := range units {
		if u.n == 0 {
			continue
		}
		abs := u.n
		if abs < 0 {
			abs = -abs
		}
		parts = append(parts, fmt.Sprintf("%d %s%s", u.n, u.name, pluralSuffix(abs)))
	}

	if len(parts) == 0 {
		return "0 milliseconds"
	}
	return strings.Join(parts, " ")
}

// ===============================
// Countdown
// ===============================

// Countdown splits the time left until a deadline into whole days, hours,
// minutes and seconds. After the deadline all fields are zero or negative.
type Countdown struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// CountdownTo returns the time remaining from now until deadline.
func CountdownTo(now, deadline time.Time) Countdown {
	total := int64(deadline.Sub(now) / time.Second)
	return Countdown{
		Days:    total / 86400,
		Hours:   total / 3600 % 24,
		Minutes: total / 60 % 60,
		Seconds: total % 60,
	}
}

// String formats the countdown as "12d 03h 04m 05s".
func (c Countdown) String() string {
	sign := ""
	if c.Days < 0 || c.Hours < 0 || c.Minutes < 0 || c.Seconds < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%dd %02dh %02dm %02ds", sign, abs64(c.Days), abs64(c.Hours), abs64(c.Minutes), abs64(c.Seconds))
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
