package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/online-quiz/internal/middleware"
	"github.com/deppfellow/online-quiz/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HealthHandler serves GET /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth pings the dependencies named in observability.health_checks.
//
// The store decides the overall result (200 healthy, 503 unhealthy). Redis
// only backs rate limiting, so its failure is reported without failing the
// endpoint.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	obs := h.server.Config.Observability
	timeout := obs.HealthChecks.Timeout

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"driver":      h.server.DB.Driver,
		"checks":      checks,
	}

	isHealthy := true

	if obs.RunsCheck("database") {
		result, ok := h.runCheck(c.Request().Context(), &logger, "database", timeout, h.server.DB.Ping)
		checks["database"] = result
		isHealthy = isHealthy && ok
	}

	if obs.RunsCheck("redis") && h.server.Redis != nil {
		result, _ := h.runCheck(c.Request().Context(), &logger, "redis", timeout, func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
		checks["redis"] = result
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthEvent(map[string]interface{}{
			"check_type":        "overall",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// runCheck calls ping under timeout and returns the check's report entry.
func (h *HealthHandler) runCheck(
	parent context.Context,
	logger *zerolog.Logger,
	name string,
	timeout time.Duration,
	ping func(context.Context) error,
) (map[string]interface{}, bool) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordHealthEvent(map[string]interface{}{
			"check_type":       name,
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return map[string]interface{}{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}, false
	}

	return map[string]interface{}{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}, true
}

func (h *HealthHandler) recordHealthEvent(attrs map[string]interface{}) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		attrs["operation"] = "health_check"
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
