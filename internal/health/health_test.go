package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func ok(context.Context) error { return nil }

func TestHealthHandler(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", NewSimpleChecker("storage", ok))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response Response
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != StatusHealthy {
		t.Errorf("expected status healthy, got %s", response.Status)
	}
	if response.Version != "v1.0.0" {
		t.Errorf("expected version v1.0.0, got %s", response.Version)
	}
	if len(response.Checks) != 1 {
		t.Errorf("expected 1 check, got %d", len(response.Checks))
	}
}

func TestHealthHandler_Statuses(t *testing.T) {
	failing := func(context.Context) error { return errors.New("broker down") }

	tests := []struct {
		name     string
		checkers map[string]Checker
		want     Status
		wantCode int
	}{
		{
			name:     "no checkers",
			want:     StatusHealthy,
			wantCode: http.StatusOK,
		},
		{
			name: "optional dependency failing",
			checkers: map[string]Checker{
				"storage": NewSimpleChecker("storage", ok),
				"kafka":   NewOptionalChecker("kafka", failing),
			},
			want:     StatusDegraded,
			wantCode: http.StatusOK,
		},
		{
			name: "critical dependency failing",
			checkers: map[string]Checker{
				"storage": NewSimpleChecker("storage", failing),
				"kafka":   NewOptionalChecker("kafka", failing),
			},
			want:     StatusUnhealthy,
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler("test")
			for name, c := range tt.checkers {
				handler.RegisterChecker(name, c)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			var response Response
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Status != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, response.Status)
			}
		})
	}
}

func TestLivenessHandler(t *testing.T) {
	w := httptest.NewRecorder()
	LivenessHandler(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("expected body 'ok', got %s", w.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		checker  Checker
		wantCode int
		wantBody string
	}{
		{name: "ready", checker: NewSimpleChecker("storage", ok), wantCode: http.StatusOK, wantBody: "ready"},
		{name: "degraded is still ready", checker: NewOptionalChecker("kafka", func(context.Context) error { return errors.New("x") }), wantCode: http.StatusOK, wantBody: "ready"},
		{name: "not ready", checker: NewSimpleChecker("storage", func(context.Context) error { return errors.New("x") }), wantCode: http.StatusServiceUnavailable, wantBody: "not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler("v1.0.0")
			handler.RegisterChecker("dep", tt.checker)

			w := httptest.NewRecorder()
			handler.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if w.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, w.Body.String())
			}
		})
	}
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestPingChecker(t *testing.T) {
	check := NewPingChecker("postgres", pinger{err: errors.New("connection refused")}).Check(context.Background())

	if check.Status != StatusUnhealthy {
		t.Errorf("expected status unhealthy, got %s", check.Status)
	}
	if check.Message != "connection refused" {
		t.Errorf("expected message 'connection refused', got %s", check.Message)
	}
}

func TestSimpleChecker_Duration(t *testing.T) {
	checker := NewSimpleChecker("slow", func(context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})

	check := checker.Check(context.Background())
	if check.Status != StatusHealthy {
		t.Errorf("expected status healthy, got %s", check.Status)
	}
	if check.DurationMs < 10 {
		t.Errorf("expected duration >= 10ms, got %d", check.DurationMs)
	}
}

func TestChecker_ReceivesDeadline(t *testing.T) {
	handler := NewHandler("test")
	var hasDeadline bool
	handler.RegisterChecker("storage", NewSimpleChecker("storage", func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}))

	handler.Evaluate(context.Background())
	if !hasDeadline {
		t.Fatal("checker context must carry a deadline")
	}
}
