package instant

import (
	"errors"
	"math/big"
	"testing"
	"time"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
)

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad big int literal %q", s)
	}
	return v
}

func TestZeroValueIsEpoch(t *testing.T) {
	var zero Instant
	if !zero.Equal(FromTime(time.Unix(0, 0))) {
		t.Errorf("zero Instant = %s, want epoch", zero)
	}
	if zero.Millis().Sign() != 0 {
		t.Errorf("zero Millis() = %s, want 0", zero.Millis())
	}
}

func TestFromMillis_CopiesArgument(t *testing.T) {
	ms := big.NewInt(42)
	i := FromMillis(ms)
	ms.SetInt64(7)

	if i.Millis().Int64() != 42 {
		t.Errorf("Millis() = %s, want 42", i.Millis())
	}

	out := i.Millis()
	out.SetInt64(99)
	if i.Millis().Int64() != 42 {
		t.Errorf("Millis() leaked internal state: %s", i.Millis())
	}
}

func TestAddMs_Identity(t *testing.T) {
	tests := []struct {
		name string
		ms   string
	}{
		{"epoch", "0"},
		{"recent", "1719061020000"},
		{"safe limit", "-8640000000000000"},
		{"billions of years ago", "-432000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FromMillis(mustBig(t, tt.ms))
			if got := a.AddMs(big.NewInt(0)); !got.Equal(a) {
				t.Errorf("AddMs(0) = %s, want %s", got.Millis(), a.Millis())
			}
		})
	}
}

func TestAddMs_Associative(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		m1, m2 string
	}{
		{"small", "1000", "5", "-7"},
		{"cross the safe limit", "0", "-8640000000000000", "-1"},
		{"far past", "1719061020000", "-432329003652000000000", "-12345"},
		{"beyond int64", "9223372036854775807", "9223372036854775807", "9223372036854775807"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FromMillis(mustBig(t, tt.start))
			m1, m2 := mustBig(t, tt.m1), mustBig(t, tt.m2)

			stepwise := a.AddMs(m1).AddMs(m2)
			combined := a.AddMs(new(big.Int).Add(m1, m2))
			if !stepwise.Equal(combined) {
				t.Errorf("AddMs(m1).AddMs(m2) = %s, AddMs(m1+m2) = %s", stepwise.Millis(), combined.Millis())
			}
		})
	}
}

func TestAddMs_DoesNotMutateReceiver(t *testing.T) {
	a := FromMillisInt64(100)
	_ = a.AddMs(big.NewInt(-50))
	if a.Millis().Int64() != 100 {
		t.Errorf("receiver changed to %s", a.Millis())
	}
}

func TestDifferenceMs(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{"forward", "1000", "2500", "1500"},
		{"backward", "2500", "1000", "-1500"},
		{"same", "77", "77", "0"},
		{"huge", "-432000000000000000000", "1719061020000", "432000001719061020000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FromMillis(mustBig(t, tt.a))
			b := FromMillis(mustBig(t, tt.b))

			got := DifferenceMs(a, b)
			if got.String() != tt.want {
				t.Errorf("DifferenceMs() = %s, want %s", got, tt.want)
			}

			reverse := DifferenceMs(b, a)
			if new(big.Int).Neg(reverse).Cmp(got) != 0 {
				t.Errorf("DifferenceMs(b, a) = %s, want %s", reverse, new(big.Int).Neg(got))
			}

			if landed := a.AddMs(got); !landed.Equal(b) {
				t.Errorf("a.AddMs(DifferenceMs(a, b)) = %s, want %s", landed.Millis(), b.Millis())
			}
		})
	}
}

func TestTime_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
	}{
		{"epoch", time.Unix(0, 0).UTC()},
		{"interval start", time.Date(2024, 6, 22, 12, 57, 0, 0, time.UTC)},
		{"interval end", time.Date(2025, 1, 10, 0, 17, 0, 0, time.UTC)},
		{"negative year", time.UnixMilli(-SafeRangeMs).UTC()},
		{"far future limit", time.UnixMilli(SafeRangeMs).UTC()},
		{"millisecond precision", time.Date(1999, 12, 31, 23, 59, 59, 999_000_000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromTime(tt.in).Time()
			if err != nil {
				t.Fatalf("Time() error = %v", err)
			}
			if !got.Equal(tt.in) {
				t.Errorf("Time() = %v, want %v", got, tt.in)
			}
		})
	}
}

func TestTime_OutOfRange(t *testing.T) {
	tests := []struct {
		name     string
		ms       string
		wantKind string
	}{
		{"just past the future limit", "8640000000000001", KindMagnitude},
		{"just past the past limit", "-8640000000000001", KindMagnitude},
		{"beyond int64", "-99999999999999999999999", KindMagnitude},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := FromMillis(mustBig(t, tt.ms))
			if i.IsSafe() {
				t.Error("IsSafe() = true, want false")
			}

			_, err := i.Time()
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("Time() error = %v, want ErrOutOfRange", err)
			}
			if !dcerr.HasCode(err, dcerr.CodeValueOutOfRange) {
				t.Errorf("error code = %v, want %v", dcerr.GetCode(err), dcerr.CodeValueOutOfRange)
			}

			var structured *dcerr.Error
			if !errors.As(err, &structured) {
				t.Fatal("error should be a structured error")
			}
			if kind, _ := structured.Detail("kind"); kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", kind, tt.wantKind)
			}
			if ms, _ := structured.Detail("millis"); ms != tt.ms {
				t.Errorf("millis detail = %v, want %v", ms, tt.ms)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		in   Instant
		want string
	}{
		{"in range", FromTime(time.Date(2024, 6, 22, 12, 57, 0, 0, time.UTC)), "2024-06-22T12:57:00.000Z"},
		{"epoch", Instant{}, "1970-01-01T00:00:00.000Z"},
		{"out of range", FromMillisInt64(-8640000000000001), "instant(-8640000000000001 ms)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Describe(); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
			if got := tt.in.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCmp(t *testing.T) {
	early := FromMillisInt64(-5)
	late := FromMillisInt64(5)

	if early.Cmp(late) != -1 || late.Cmp(early) != 1 || early.Cmp(early) != 0 {
		t.Errorf("Cmp ordering broken: %d %d %d", early.Cmp(late), late.Cmp(early), early.Cmp(early))
	}
}

func TestMarshalText(t *testing.T) {
	got, err := FromMillis(mustBig(t, "-432000000000000000000")).MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(got) != "-432000000000000000000" {
		t.Errorf("MarshalText() = %s", got)
	}
}
