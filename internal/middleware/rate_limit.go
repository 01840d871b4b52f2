package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/deppfellow/online-quiz/internal/errs"
	"github.com/deppfellow/online-quiz/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "quiz:ratelimit:"

// counter is the part of the Redis client the limiter needs.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimitMiddleware enforces a fixed window request limit per client IP,
// counted in Redis so that every instance shares the same budget.
type RateLimitMiddleware struct {
	server *server.Server
	store  counter
	now    func() time.Time
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	var store counter
	if s.Redis != nil {
		store = s.Redis
	}
	return newRateLimitMiddleware(s, store)
}

func newRateLimitMiddleware(s *server.Server, store counter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
		store:  store,
		now:    time.Now,
	}
}

// Limit passes every request through when Redis or the limit is disabled.
// Requests past the limit get a 429. Redis errors let the request through.
func (r *RateLimitMiddleware) Limit(skipPaths ...string) echo.MiddlewareFunc {
	cfg := r.server.Config.Server.RateLimit

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if r.store == nil || !cfg.Enabled {
			return next
		}

		return func(c echo.Context) error {
			for _, p := range skipPaths {
				if c.Path() == p {
					return next(c)
				}
			}

			window := r.now().UnixNano() / int64(cfg.Window)
			key := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, c.RealIP(), window)
			ctx := c.Request().Context()

			count, err := r.store.Incr(ctx, key).Result()
			if err != nil {
				GetLogger(c).Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if count == 1 {
				if err := r.store.Expire(ctx, key, cfg.Window).Err(); err != nil {
					GetLogger(c).Warn().Err(err).Str("key", key).Msg("failed to set rate limit window expiry")
				}
			}

			remaining := int64(cfg.Requests) - count
			if remaining < 0 {
				remaining = 0
			}
			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			header.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Requests) {
				header.Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				r.RecordRateLimitHit(c.Path())
				return errs.NewTooManyRequestsError("Too many requests")
			}

			return next(c)
		}
	}
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
