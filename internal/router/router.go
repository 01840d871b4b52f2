// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/deppfellow/online-quiz/internal/handler"
	"github.com/deppfellow/online-quiz/internal/middleware"
	"github.com/deppfellow/online-quiz/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the global middleware chain,
// the system routes and the question routes.
//
// Middleware order matters: the request id and New Relic transaction must
// exist before ContextEnhancer builds the request logger, and the request
// logger wraps Recover so panics are logged with their final status.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.RateLimit.Limit("/status"),
	)

	registerSystemRoutes(router, h)
	registerQuestionRoutes(router, h)

	return router
}
