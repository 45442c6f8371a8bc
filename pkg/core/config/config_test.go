package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5m0s" {
		t.Errorf("MarshalText() = %v, want 5m0s", string(result))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.General.Name != "deepclock" {
		t.Errorf("General.Name = %v, want deepclock", cfg.General.Name)
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if cfg.Display.TeaseMya != 0.02 {
		t.Errorf("Display.TeaseMya = %v, want 0.02", cfg.Display.TeaseMya)
	}
	if cfg.Display.EarthFormedMya != 4540 {
		t.Errorf("Display.EarthFormedMya = %v, want 4540", cfg.Display.EarthFormedMya)
	}
	if cfg.Display.EventsLowPercent != 95 || cfg.Display.EventsHighPercent != 105 {
		t.Errorf("events window = %d..%d, want 95..105", cfg.Display.EventsLowPercent, cfg.Display.EventsHighPercent)
	}
	if cfg.Store.Path != filepath.Join("./data", "deepclock.db") {
		t.Errorf("Store.Path = %v", cfg.Store.Path)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8088 {
		t.Errorf("Server = %s:%d, want 127.0.0.1:8088", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.PushInterval.Duration != time.Second {
		t.Errorf("Server.PushInterval = %v, want 1s", cfg.Server.PushInterval.Duration)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if !dcerr.HasCode(err, dcerr.CodeMissingConfig) {
		t.Errorf("Load() error = %v, want MISSING_CONFIG", err)
	}
}

func TestLoad_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[general]
name = "clock-test"
data_dir = "/var/lib/deepclock"

[interval]
start = "2024-06-22T12:57:00Z"
end = "2025-01-10T00:17:00Z"

[display]
refresh = "250ms"

[server]
port = 9999
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.Name != "clock-test" {
		t.Errorf("General.Name = %v, want clock-test", cfg.General.Name)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %v, want 9999", cfg.Server.Port)
	}
	if cfg.Display.Refresh.Duration != 250*time.Millisecond {
		t.Errorf("Display.Refresh = %v, want 250ms", cfg.Display.Refresh.Duration)
	}
	if cfg.Store.Path != "/var/lib/deepclock/deepclock.db" {
		t.Errorf("Store.Path = %v, want default under data_dir", cfg.Store.Path)
	}

	start, end, ok, err := cfg.Interval.Times()
	if err != nil || !ok {
		t.Fatalf("Interval.Times() = ok %v, err %v", ok, err)
	}
	if !start.Equal(time.Date(2024, 6, 22, 12, 57, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2025, 1, 10, 0, 17, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}
}

func TestLoad_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
general:
  log_level: debug
display:
  tease_mya: 0.05
server:
  push_interval: 2s
  allowed_origins: ["http://localhost:3000"]
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}
	if cfg.Display.TeaseMya != 0.05 {
		t.Errorf("Display.TeaseMya = %v, want 0.05", cfg.Display.TeaseMya)
	}
	if cfg.Server.PushInterval.Duration != 2*time.Second {
		t.Errorf("Server.PushInterval = %v, want 2s", cfg.Server.PushInterval.Duration)
	}
	if len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("Server.AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if _, _, ok, _ := cfg.Interval.Times(); ok {
		t.Error("interval should be unset")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
	}{
		{"bad toml", "[general\nname=", FormatTOML},
		{"unknown toml key", "[general]\ncolour = \"red\"", FormatTOML},
		{"unknown yaml key", "general:\n  colour: red\n", FormatYAML},
		{"bad interval", "[interval]\nstart = \"yesterday\"\nend = \"2025-01-01\"", FormatTOML},
		{"bad port", "[server]\nport = 70000", FormatTOML},
		{"inverted window", "[display]\nevents_low_percent = 110", FormatTOML},
		{"inverted tiers", "[display]\ntease_mya = 5000", FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), tt.format)
			if !dcerr.HasCode(err, dcerr.CodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestParse_EmptyYAML(t *testing.T) {
	cfg, err := Parse(nil, FormatYAML)
	if err != nil {
		t.Fatalf("Parse(empty) error = %v", err)
	}
	if cfg.General.Name != "deepclock" {
		t.Errorf("defaults not applied: %v", cfg.General.Name)
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("DEEPCLOCK_TEST_DIR", "/tmp/dc")

	cfg := &Config{Store: StoreConfig{Path: "$DEEPCLOCK_TEST_DIR/clock.db"}}
	cfg.expandEnvVars()

	if cfg.Store.Path != "/tmp/dc/clock.db" {
		t.Errorf("Store.Path = %v, want /tmp/dc/clock.db", cfg.Store.Path)
	}
}

func TestLoadFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.toml")
	if err := os.WriteFile(configPath, []byte("[general]\nname = \"from-env\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	t.Setenv(EnvConfigPath, configPath)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.General.Name != "from-env" {
		t.Errorf("General.Name = %v, want from-env", cfg.General.Name)
	}
}

func TestLoadFromEnv_NoConfigFound(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", t.TempDir())

	originalWd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(originalWd)

	_, err := LoadFromEnv()
	if !dcerr.HasCode(err, dcerr.CodeMissingConfig) {
		t.Errorf("LoadFromEnv() error = %v, want MISSING_CONFIG", err)
	}
}
