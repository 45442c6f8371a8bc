package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
	"github.com/msto63/deepclock/pkg/core/version"
)

// writeTestConfig writes a config file that keeps all state in a temp dir
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[general]
data_dir = "` + filepath.ToSlash(dir) + `"
log_level = "error"

[store]
path = "` + filepath.ToSlash(filepath.Join(dir, "deepclock.db")) + `"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithStderr(t, args...)
	return out, err
}

func executeWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestShowJSON(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := execute(t, "show", "--config", cfg,
		"--start", "2000-01-01", "--end", "2050-01-01",
		"--now", "2025-01-01T00:00:00Z", "--json")
	if err != nil {
		t.Fatalf("show error: %v", err)
	}

	var snap map[string]interface{}
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	p, _ := snap["p"].(float64)
	if p < 0.49 || p > 0.51 {
		t.Errorf("p = %v, want about 0.5", snap["p"])
	}
	if snap["display"] == "" {
		t.Error("display missing")
	}
}

func TestShowText(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := execute(t, "show", "--config", cfg,
		"--start", "2000-01-01", "--end", "2050-01-01",
		"--now", "2000-01-01T00:00:00Z", "--json=false")
	if err != nil {
		t.Fatalf("show error: %v", err)
	}
	for _, want := range []string{"reaches back to", "Progress:   0.0000%", "Length:     18263 days", "(flags)", "Tier:       recent"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowWithoutInterval(t *testing.T) {
	cfg := writeTestConfig(t)

	_, err := execute(t, "show", "--config", cfg, "--start", "", "--end", "", "--now", "")
	if !dcerr.HasCode(err, dcerr.CodeNotFound) {
		t.Errorf("show without interval = %v, want NOT_FOUND", err)
	}
}

func TestIntervalLifecycle(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := execute(t, "interval", "show", "--config", cfg, "--json=false")
	if err != nil {
		t.Fatalf("interval show error: %v", err)
	}
	if !strings.Contains(out, "No interval saved") {
		t.Errorf("empty show = %q", out)
	}

	out, err = execute(t, "interval", "set", "--config", cfg, "--start", "2020-01-01", "--end", "2030-01-01")
	if err != nil {
		t.Fatalf("interval set error: %v", err)
	}
	if !strings.Contains(out, "Saved interval") {
		t.Errorf("set output = %q", out)
	}

	out, err = execute(t, "interval", "show", "--config", cfg, "--json=false")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "2020-01-01T00:00:00Z") || !strings.Contains(out, "2030-01-01T00:00:00Z") ||
		!strings.Contains(out, "Length:  3653 days") {
		t.Errorf("show output = %q", out)
	}

	// show without flags now picks up the stored interval
	out, err = execute(t, "show", "--config", cfg, "--start", "", "--end", "", "--now", "2025-01-01", "--json=false")
	if err != nil {
		t.Fatalf("show error: %v", err)
	}
	if !strings.Contains(out, "(store)") {
		t.Errorf("show did not use stored interval:\n%s", out)
	}

	out, err = execute(t, "interval", "history", "--config", cfg, "--limit", "5")
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 1 {
		t.Errorf("history lines = %d, want 1", len(lines))
	}

	out, err = execute(t, "interval", "clear", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Removed 1") {
		t.Errorf("clear output = %q", out)
	}
}

func TestIntervalSetRejectsEmpty(t *testing.T) {
	cfg := writeTestConfig(t)

	_, err := execute(t, "interval", "set", "--config", cfg, "--start", "2030-01-01", "--end", "2030-01-01")
	if !dcerr.HasCode(err, dcerr.CodeInvalidInput) {
		t.Errorf("set empty = %v, want INVALID_INPUT", err)
	}
}

func TestShowReversedInterval(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := execute(t, "show", "--config", cfg,
		"--start", "2050-01-01", "--end", "2000-01-01",
		"--now", "2050-01-01T00:00:00Z", "--json")
	if err != nil {
		t.Fatalf("show reversed error: %v", err)
	}

	var snap map[string]interface{}
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if p, ok := snap["p"].(float64); !ok || p != 0 {
		t.Errorf("p = %v, want 0 at the reversed start", snap["p"])
	}
}

func TestServeLogsListenFailure(t *testing.T) {
	cfg := writeTestConfig(t)

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()

	_, stderr, err := executeWithStderr(t, "serve", "--config", cfg, "--addr", busy.Addr().String())
	if !dcerr.HasCode(err, dcerr.CodeConnectionFailed) {
		t.Fatalf("serve on busy port = %v, want CONNECTION_FAILED", err)
	}
	if !strings.Contains(stderr, "listen on "+busy.Addr().String()) || !strings.Contains(stderr, "CONNECTION_FAILED") {
		t.Errorf("listen failure not logged:\n%s", stderr)
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	cfgFile, verbose = writeTestConfig(t), true
	defer func() { cfgFile, verbose = "", false }()

	var buf bytes.Buffer
	a, err := loadApp(&buf)
	if err != nil {
		t.Fatal(err)
	}
	a.logger.Debug("verbose line")
	if !strings.Contains(buf.String(), "verbose line") {
		t.Errorf("--verbose did not enable debug output: %q", buf.String())
	}

	verbose = false
	buf.Reset()
	a, err = loadApp(&buf)
	if err != nil {
		t.Fatal(err)
	}
	a.logger.Debug("quiet line")
	if buf.Len() != 0 {
		t.Errorf("debug written at configured error level: %q", buf.String())
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "deepclock v") {
		t.Errorf("version output = %q", out)
	}
	for _, want := range []string{"server   " + version.Server, "store    " + version.Store, "tui      " + version.TUI} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		wantSet  bool
		wantCode dcerr.Code
	}{
		{"neither", "", "", false, ""},
		{"both", "2000-01-01", "2001-01-01", true, ""},
		{"only start", "2000-01-01", "", false, dcerr.CodeInvalidInput},
		{"bad format", "someday", "2001-01-01", false, dcerr.CodeInvalidFormat},
		{"equal", "2000-01-01", "2000-01-01", true, dcerr.CodeInvalidInput},
		{"reversed", "2001-01-01", "2000-01-01", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := parseInterval(tt.start, tt.end)
			if tt.wantCode != "" {
				if !dcerr.HasCode(err, tt.wantCode) {
					t.Errorf("parseInterval() error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseInterval() error = %v", err)
			}
			if iv.IsSet() != tt.wantSet {
				t.Errorf("IsSet() = %v, want %v", iv.IsSet(), tt.wantSet)
			}
		})
	}
}

func TestSplitAddr(t *testing.T) {
	tests := []struct {
		addr    string
		host    string
		port    int
		wantErr bool
	}{
		{"127.0.0.1:8088", "127.0.0.1", 8088, false},
		{":9000", "", 9000, false},
		{"localhost", "", 0, true},
		{"localhost:http", "", 0, true},
		{"localhost:70000", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			host, port, err := splitAddr(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitAddr() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (host != tt.host || port != tt.port) {
				t.Errorf("splitAddr() = %q, %d", host, port)
			}
		})
	}
}
