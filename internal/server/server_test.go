package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/natikozel/Mapty/internal/auth"
	"github.com/natikozel/Mapty/internal/config"
	"github.com/natikozel/Mapty/internal/storage"
	"github.com/natikozel/Mapty/internal/stream"
	"github.com/natikozel/Mapty/internal/worklog"
	"github.com/natikozel/Mapty/internal/workout"

	"github.com/golang-jwt/jwt/v5"
)

const runBody = `{"type":"running","distance":5,"duration":25,"cadence":178,"lat":51.5,"lng":-0.12}`

func newTestServer(cfg config.Config) *Server {
	hub := stream.NewHub(nil)
	svc := worklog.NewService(worklog.NewLog(storage.NewMemoryStore(), "workouts"), workout.NewFactory(), hub, nil)
	return NewServer(cfg, svc, hub)
}

func postWorkout(t *testing.T, s *Server, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/workouts/", strings.NewReader(runBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	return resp
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer(config.Config{ServerPort: ":0", RateLimitPerMinute: 60, RateLimitBurst: 5})

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(config.Config{RateLimitPerMinute: 60, RateLimitBurst: 5})
	if resp := postWorkout(t, s, ""); resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %d", resp.StatusCode)
	}

	resp, err := s.App.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil || resp.StatusCode != 200 {
		t.Fatalf("metrics status: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "mapty_workouts_created_total") {
		t.Fatalf("workout counter missing from metrics output")
	}
}

func TestWorkoutWritesRequireToken(t *testing.T) {
	s := newTestServer(config.Config{JWTSecret: "secret", RateLimitPerMinute: 60, RateLimitBurst: 5})

	if resp := postWorkout(t, s, ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if resp := postWorkout(t, s, token); resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp, err := s.App.Test(httptest.NewRequest("GET", "/workouts/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("reads should stay open: %v", err)
	}
}

func TestWorkoutWritesRateLimited(t *testing.T) {
	s := newTestServer(config.Config{RateLimitPerMinute: 1, RateLimitBurst: 2})

	for i := 0; i < 2; i++ {
		if resp := postWorkout(t, s, ""); resp.StatusCode != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i, resp.StatusCode)
		}
	}
	resp := postWorkout(t, s, "")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("expected remaining header 0")
	}
}

func TestRateLimiterSweep(t *testing.T) {
	now := time.Unix(0, 0)
	rl := NewRateLimiter(60, 1)
	rl.now = func() time.Time { return now }

	rl.limiter("a").AllowN(now, 1)
	rl.limiter("b")
	if len(rl.limiters) != 2 {
		t.Fatalf("expected 2 limiters, got %d", len(rl.limiters))
	}

	now = now.Add(limiterSweepInterval + time.Second)
	rl.limiter("c")
	if len(rl.limiters) != 1 {
		t.Fatalf("expected refilled limiters swept, got %d", len(rl.limiters))
	}
}
