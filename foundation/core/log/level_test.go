// File: level_test.go
// Title: Log Level Tests
// Description: Tests for level names, filtering and parsing.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with level tests
// - 2026-10-19 v0.2.0: Parse errors checked by code

package log

import (
	"testing"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
)

func TestLevelString(t *testing.T) {
	testCases := []struct {
		level Level
		long  string
		short string
	}{
		{LevelTrace, "trace", "TRC"},
		{LevelDebug, "debug", "DBG"},
		{LevelInfo, "info", "INF"},
		{LevelWarn, "warn", "WRN"},
		{LevelError, "error", "ERR"},
		{LevelFatal, "fatal", "FTL"},
		{Level(99), "unknown", "???"},
	}

	for _, tc := range testCases {
		t.Run(tc.long, func(t *testing.T) {
			if got := tc.level.String(); got != tc.long {
				t.Errorf("String() = %q, want %q", got, tc.long)
			}
			if got := tc.level.ShortString(); got != tc.short {
				t.Errorf("ShortString() = %q, want %q", got, tc.short)
			}
		})
	}
}

func TestLevelShouldLog(t *testing.T) {
	if !LevelError.ShouldLog(LevelInfo) {
		t.Error("error should pass an info threshold")
	}
	if LevelDebug.ShouldLog(LevelInfo) {
		t.Error("debug should not pass an info threshold")
	}
	if !LevelInfo.ShouldLog(LevelInfo) {
		t.Error("a level should pass its own threshold")
	}
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"err", LevelError, false},
		{"fatal", LevelFatal, false},
		{"loud", LevelInfo, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseLevel(tc.input)
			if got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.want)
			}
			if tc.wantErr {
				if !dcerr.HasCode(err, dcerr.CodeInvalidConfig) {
					t.Errorf("ParseLevel(%q) error = %v, want INVALID_CONFIG", tc.input, err)
				}
			} else if err != nil {
				t.Errorf("ParseLevel(%q) unexpected error: %v", tc.input, err)
			}
		})
	}
}

func TestAllLevelsOrdered(t *testing.T) {
	levels := AllLevels()
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			t.Fatalf("AllLevels() not ascending at %d: %v", i, levels)
		}
	}
}
