package progress

import (
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/msto63/deepclock/pkg/instant"
)

var (
	intervalStart = time.Date(2024, 6, 22, 12, 57, 0, 0, time.UTC)
	intervalEnd   = time.Date(2025, 1, 10, 0, 17, 0, 0, time.UTC)
)

func TestMsPerYear(t *testing.T) {
	want := int64(365.2425 * 86400 * 1000)
	if MsPerYear != want {
		t.Errorf("MsPerYear = %d, want %d", MsPerYear, want)
	}
}

func TestFraction(t *testing.T) {
	span := intervalEnd.Sub(intervalStart)

	tests := []struct {
		name string
		now  time.Time
		want float64
	}{
		{"at start", intervalStart, 0},
		{"at end", intervalEnd, 1},
		{"halfway", intervalStart.Add(span / 2), 0.5},
		{"quarter", intervalStart.Add(span / 4), 0.25},
		{"before start", intervalStart.Add(-span), -1},
		{"after end", intervalEnd.Add(span), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fraction(intervalStart, intervalEnd, tt.now)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Fraction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFraction_EmptyInterval(t *testing.T) {
	if got := Fraction(intervalStart, intervalStart, intervalStart); !math.IsNaN(got) {
		t.Errorf("Fraction() on empty interval at start = %v, want NaN", got)
	}
	if got := Fraction(intervalStart, intervalStart, intervalEnd); !math.IsInf(got, 1) {
		t.Errorf("Fraction() on empty interval after start = %v, want +Inf", got)
	}
}

func TestDurationYears(t *testing.T) {
	if got := DurationYears(0); got != 0 {
		t.Errorf("DurationYears(0) = %v, want 0", got)
	}

	want := math.Exp(20.3444+3) - math.Exp(3)
	got := DurationYears(1)
	if math.Abs(got-want)/want > 1e-12 {
		t.Errorf("DurationYears(1) = %v, want %v", got, want)
	}
	if got < 1.3e10 || got > 1.4e10 {
		t.Errorf("DurationYears(1) = %v, want about 1.375e10", got)
	}
}

func TestDurationYears_Monotonic(t *testing.T) {
	prev := DurationYears(0)
	for i := 1; i <= 1000; i++ {
		p := float64(i) / 1000
		cur := DurationYears(p)
		if cur <= prev {
			t.Fatalf("DurationYears(%v) = %v not above DurationYears(%v) = %v", p, cur, float64(i-1)/1000, prev)
		}
		if cur < 0 {
			t.Fatalf("DurationYears(%v) = %v, want non-negative", p, cur)
		}
		prev = cur
	}
}

func TestDurationMs(t *testing.T) {
	tests := []struct {
		name  string
		years float64
		want  string
	}{
		{"zero", 0, "0"},
		{"one year", 1, "31556952000"},
		{"two and a half years", 2.5, "78892380000"},
		{"negative", -2.5, "-78892380000"},
		{"fraction only", 0.001, "31556952"},
		{"ten billion years", 1e10, "315569520000000000000"},
		{"beyond int64 year count", 1e20, "3155695200000000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationMs(tt.years); got.String() != tt.want {
				t.Errorf("DurationMs(%v) = %s, want %s", tt.years, got, tt.want)
			}
		})
	}
}

func TestDurationMs_MatchesRoundedProduct(t *testing.T) {
	want := int64(math.Round(2.5 * 365.2425 * 86400 * 1000))
	if got := DurationMs(2.5); !got.IsInt64() || got.Int64() != want {
		t.Errorf("DurationMs(2.5) = %s, want %d", got, want)
	}
}

func TestDurationMs_PanicsOnNonFinite(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("DurationMs(+Inf) should panic")
		}
	}()
	DurationMs(math.Inf(1))
}

func TestProject(t *testing.T) {
	now := intervalStart

	if got := Project(now, big.NewInt(0)); !got.Equal(instant.FromTime(now)) {
		t.Errorf("Project(now, 0) = %s, want %s", got, instant.FromTime(now))
	}

	day := big.NewInt(86_400_000)
	got, err := Project(now, day).Time()
	if err != nil {
		t.Fatalf("Project(now, 1 day).Time() error = %v", err)
	}
	if want := now.AddDate(0, 0, -1); !got.Equal(want) {
		t.Errorf("Project(now, 1 day) = %v, want %v", got, want)
	}

	far := DurationMs(1e9)
	if Project(now, far).IsSafe() {
		t.Error("projecting a billion years back should leave the safe range")
	}
}

func TestFormatFallback(t *testing.T) {
	tests := []struct {
		years float64
		want  string
	}{
		{0, "0 years"},
		{500, "500 years"},
		{999.9, "999 years"},
		{999.99, "999 years"},
		{1000, "1,000 years"},
		{1005, "1,005 years"},
		{1500, "1,500 years"},
		{999_999, "999,999 years"},
		{999_999.99, "999,999 years"},
		{1_000_000, "1 million years"},
		{2_500_000, "2.5 million years"},
		{999_000_000, "999 million years"},
		{3_000_000_000, "3 billion years"},
		{13_750_000_000, "13.75 billion years"},
		{math.Inf(1), "beyond measure"},
		{math.Inf(-1), "beyond measure"},
		{math.NaN(), "undefined"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatFallback(tt.years); got != tt.want {
				t.Errorf("FormatFallback(%v) = %q, want %q", tt.years, got, tt.want)
			}
		})
	}
}

func TestEvaluate_AtStart(t *testing.T) {
	r := Evaluate(intervalStart, intervalEnd, intervalStart)

	if r.P != 0 {
		t.Errorf("P = %v, want 0", r.P)
	}
	if r.Years != 0 {
		t.Errorf("Years = %v, want 0", r.Years)
	}
	if r.Millis.Sign() != 0 {
		t.Errorf("Millis = %s, want 0", r.Millis)
	}
	if !r.Projected.Equal(instant.FromTime(intervalStart)) {
		t.Errorf("Projected = %s, want %s", r.Projected, instant.FromTime(intervalStart))
	}
	if !r.InRange {
		t.Error("InRange = false, want true")
	}
	if r.Display != "2024-06-22T12:57:00.000Z" {
		t.Errorf("Display = %q", r.Display)
	}
}

func TestEvaluate_AtEnd(t *testing.T) {
	r := Evaluate(intervalStart, intervalEnd, intervalEnd)

	if r.P != 1 {
		t.Errorf("P = %v, want 1", r.P)
	}
	if r.Years < 1e8 {
		t.Errorf("Years = %v, want at least 1e8", r.Years)
	}
	if r.Projected.IsSafe() {
		t.Error("Projected should be outside the safe range")
	}
	if r.InRange {
		t.Error("InRange = true, want false")
	}
	if want := FormatFallback(r.Years); r.Display != want {
		t.Errorf("Display = %q, want %q", r.Display, want)
	}
	if !strings.HasSuffix(r.Display, " billion years") {
		t.Errorf("Display = %q, want billions", r.Display)
	}
	if _, ok := r.ProjectedTime(); ok {
		t.Error("ProjectedTime() ok = true, want false")
	}
}

func TestEvaluate_Halfway(t *testing.T) {
	now := intervalStart.Add(intervalEnd.Sub(intervalStart) / 2)
	r := Evaluate(intervalStart, intervalEnd, now)

	if !r.InRange {
		t.Fatalf("InRange = false for %v years", r.Years)
	}
	if !r.Projected.Equal(Project(now, DurationMs(r.Years))) {
		t.Errorf("Projected = %s, want now - DurationMs(Years)", r.Projected)
	}
	projected, ok := r.ProjectedTime()
	if !ok {
		t.Fatal("ProjectedTime() ok = false")
	}
	if r.Display != projected.Format(instant.DisplayLayout) {
		t.Errorf("Display = %q, want %q", r.Display, projected.Format(instant.DisplayLayout))
	}
	// Roughly 235 years back.
	if years := now.Year() - projected.Year(); years < 230 || years > 240 {
		t.Errorf("projected %d years back, want about 235", years)
	}
}

func TestEvaluate_NonFiniteYears(t *testing.T) {
	start := time.UnixMilli(0)
	end := time.UnixMilli(1)
	now := time.UnixMilli(10)

	r := Evaluate(start, end, now)

	if !math.IsInf(r.Years, 1) {
		t.Fatalf("Years = %v, want +Inf", r.Years)
	}
	if r.InRange {
		t.Error("InRange = true, want false")
	}
	if !r.Projected.Equal(instant.FromTime(now)) {
		t.Errorf("Projected = %s, want now", r.Projected)
	}
	if r.Millis.Sign() != 0 {
		t.Errorf("Millis = %s, want 0", r.Millis)
	}
	if r.Display != "beyond measure" {
		t.Errorf("Display = %q, want beyond measure", r.Display)
	}
}
