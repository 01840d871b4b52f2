package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/online-quiz/internal/config"
	"github.com/deppfellow/online-quiz/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// fakeCounter mimics INCR/EXPIRE with go-redis result constructors.
type fakeCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func newLimitedHandler(store counter, limit config.RateLimitConfig, now time.Time) echo.HandlerFunc {
	s := newTestServer()
	s.Config.Server.RateLimit = limit

	rl := newRateLimitMiddleware(s, store)
	rl.now = func() time.Time { return now }

	return rl.Limit("/status")(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
}

func serve(h echo.HandlerFunc, path string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "203.0.113.7:5555"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return rec, h(c)
}

func TestRateLimitRejectsAfterLimit(t *testing.T) {
	store := newFakeCounter()
	h := newLimitedHandler(store, config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute}, time.Unix(1_700_000_000, 0))

	for i := 0; i < 2; i++ {
		if _, err := serve(h, "/list"); err != nil {
			t.Fatalf("request %d unexpectedly limited: %v", i+1, err)
		}
	}

	rec, err := serve(h, "/list")
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	if httpErr.Message != "Too many requests" {
		t.Fatalf("message = %q", httpErr.Message)
	}
	if rec.Header().Get("Retry-After") != "60" || rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("unexpected headers: %v", rec.Header())
	}

	if len(store.expires) != 1 {
		t.Fatalf("expected one window key with expiry, got %v", store.expires)
	}
	for _, d := range store.expires {
		if d != time.Minute {
			t.Fatalf("expiry = %v, want 1m", d)
		}
	}
}

func TestRateLimitSkipsConfiguredPaths(t *testing.T) {
	store := newFakeCounter()
	h := newLimitedHandler(store, config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute}, time.Now())

	for i := 0; i < 3; i++ {
		if _, err := serve(h, "/status"); err != nil {
			t.Fatalf("health checks must not be limited: %v", err)
		}
	}
	if len(store.counts) != 0 {
		t.Fatalf("skipped path should not be counted")
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	store := newFakeCounter()
	store.err = errors.New("redis: connection refused")
	h := newLimitedHandler(store, config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute}, time.Now())

	for i := 0; i < 3; i++ {
		if _, err := serve(h, "/list"); err != nil {
			t.Fatalf("expected request to pass when redis fails: %v", err)
		}
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := newLimitedHandler(newFakeCounter(), config.RateLimitConfig{Enabled: false}, time.Now())
	for i := 0; i < 5; i++ {
		if _, err := serve(h, "/list"); err != nil {
			t.Fatalf("disabled limiter rejected a request: %v", err)
		}
	}

	h = newLimitedHandler(nil, config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute}, time.Now())
	for i := 0; i < 5; i++ {
		if _, err := serve(h, "/list"); err != nil {
			t.Fatalf("limiter without redis rejected a request: %v", err)
		}
	}
}
