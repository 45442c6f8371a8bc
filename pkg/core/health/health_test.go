package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type fakePinger struct {
	err   error
	delay time.Duration
}

func (p fakePinger) Ping(ctx context.Context) error {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.err
}

func TestNewChecker(t *testing.T) {
	checker := NewChecker("test-checker", func(ctx context.Context) CheckResult {
		return CheckResult{
			Status:  StatusHealthy,
			Message: "test passed",
		}
	})

	if checker.Name() != "test-checker" {
		t.Errorf("Name() = %v, want test-checker", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
}

func TestRegistry_RegisterAndCheck(t *testing.T) {
	registry := NewRegistry("deepclock", "1.0.0")

	registry.RegisterFunc("store", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "sqlite reachable"}
	})
	registry.RegisterFunc("interval", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusHealthy, Message: "interval set"}
	})

	report := registry.Check(context.Background())

	if report.Service != "deepclock" {
		t.Errorf("Service = %v, want deepclock", report.Service)
	}
	if report.Version != "1.0.0" {
		t.Errorf("Version = %v, want 1.0.0", report.Version)
	}
	if report.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", report.Status)
	}
	if len(report.Checks) != 2 {
		t.Fatalf("Checks count = %v, want 2", len(report.Checks))
	}
	if report.Checks[0].Name != "interval" || report.Checks[1].Name != "store" {
		t.Errorf("checks not sorted by name: %v, %v", report.Checks[0].Name, report.Checks[1].Name)
	}
}

func TestRegistry_Uptime(t *testing.T) {
	registry := NewRegistry("deepclock", "1.0.0")
	registry.startAt = time.Now().Add(-(90*time.Minute + 5*time.Second))

	report := registry.Check(context.Background())
	if report.Uptime != "1h 30m 5s" {
		t.Errorf("Uptime = %q, want 1h 30m 5s", report.Uptime)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry("deepclock", "1.0.0")

	registry.Register(AlwaysHealthy("temp"))
	if n := len(registry.Check(context.Background()).Checks); n != 1 {
		t.Errorf("Before unregister: Checks count = %v, want 1", n)
	}

	registry.Unregister("temp")
	if n := len(registry.Check(context.Background()).Checks); n != 0 {
		t.Errorf("After unregister: Checks count = %v, want 0", n)
	}
}

func TestRegistry_OverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"one unhealthy", []Status{StatusDegraded, StatusUnhealthy}, StatusUnhealthy},
		{"empty", nil, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("deepclock", "1.0.0")
			for i, s := range tt.statuses {
				status := s
				registry.RegisterFunc(string(rune('a'+i)), func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				})
			}

			if got := registry.Check(context.Background()).Status; got != tt.want {
				t.Errorf("Status = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistry_ConcurrentChecks(t *testing.T) {
	registry := NewRegistry("deepclock", "1.0.0")

	var counter int32

	for i := 0; i < 5; i++ {
		registry.RegisterFunc("check"+string(rune('A'+i)), func(ctx context.Context) CheckResult {
			atomic.AddInt32(&counter, 1)
			time.Sleep(10 * time.Millisecond)
			return CheckResult{Status: StatusHealthy}
		})
	}

	start := time.Now()
	report := registry.Check(context.Background())
	duration := time.Since(start)

	if atomic.LoadInt32(&counter) != 5 {
		t.Errorf("Counter = %v, want 5", counter)
	}
	if duration > 200*time.Millisecond {
		t.Errorf("Duration = %v, expected concurrent execution", duration)
	}
	if len(report.Checks) != 5 {
		t.Errorf("Checks count = %v, want 5", len(report.Checks))
	}
}

func TestPingCheck(t *testing.T) {
	tests := []struct {
		name   string
		pinger fakePinger
		want   Status
	}{
		{"ok", fakePinger{}, StatusHealthy},
		{"error", fakePinger{err: errors.New("database is locked")}, StatusUnhealthy},
		{"timeout", fakePinger{delay: time.Second}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := PingCheck("store", tt.pinger, 20*time.Millisecond)
			result := checker.Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v, want %v (%s)", result.Status, tt.want, result.Message)
			}
		})
	}
}

func TestHandler(t *testing.T) {
	registry := NewRegistry("deepclock", "1.0.0")
	registry.Register(PingCheck("store", fakePinger{}, time.Second))

	rec := httptest.NewRecorder()
	Handler(registry, time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status code = %d, want 200", rec.Code)
	}

	var report Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("body is not a report: %v", err)
	}
	if report.Status != StatusHealthy || len(report.Checks) != 1 {
		t.Errorf("unexpected report: %+v", report)
	}

	registry.Register(PingCheck("store", fakePinger{err: errors.New("closed")}, time.Second))
	rec = httptest.NewRecorder()
	Handler(registry, time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status code = %d, want 503", rec.Code)
	}
}

func TestReport_String(t *testing.T) {
	report := &Report{
		Service: "deepclock",
		Status:  StatusHealthy,
		Uptime:  "1h 0m 0s",
		Checks:  []CheckResult{{}, {}},
	}

	want := "Service: deepclock, Status: healthy, Uptime: 1h 0m 0s, Checks: 2"
	if got := report.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
