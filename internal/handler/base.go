package handler

import (
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/deppfellow/online-quiz/internal/errs"
	"github.com/deppfellow/online-quiz/internal/middleware"
	"github.com/deppfellow/online-quiz/internal/server"
	"github.com/deppfellow/online-quiz/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Handler is the base handler type that holds shared application dependencies.
//
// It is embedded/used by concrete handlers (e.g., QuestionHandler, HealthHandler) so they can
// access shared resources via *server.Server (config, logger, db, redis).
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc represents a typed endpoint function that:
//
// - receives a validated request payload (Req)
// - returns a response (Res) or an error
//
// Req must satisfy validation.Validatable.
// In practice Req is a POINTER type, e.g. *question.CreateQuestionRequest,
// because Echo's Bind requires a pointer to populate fields.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler defines the interface for handling different response types
//
// It defines how a successful handler result is written to the HTTP response,
// and how observability attributes should be attached for that response type.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given result.
	Handle(c echo.Context, result interface{}) error

	// GetOperation returns an operation name used for structured logging.
	// This helps distinguish handler types (json/text) in logs.
	GetOperation() string

	// AddAttributes attaches New Relic attributes based on response type and/or result.
	// This allows customization beyond the generic tracing middleware.
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by tracing middleware (EnhanceTracing).
}

// TextResponseHandler writes the result as a plain text body.
//
// The handler result must be a string.
type TextResponseHandler struct {
	status int
}

func (h TextResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.String(h.status, result.(string))
}

func (h TextResponseHandler) GetOperation() string {
	return "handler_text"
}

func (h TextResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn != nil {
		if text, ok := result.(string); ok {
			txn.AddAttribute("response.text_bytes", len(text))
		}
	}
}

// handleRequest is the pipeline behind Handle and HandleText.
//
// Steps: bind + validate, run the endpoint, write the result. Each step is
// timed, logged through the request-scoped logger and, when New Relic is on,
// recorded as transaction attributes. Errors are returned untouched for the
// global error handler to render.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	// Set by nrecho; nil when the agent is disabled.
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		failureEvent(&logger, err).
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}
		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)
	totalDuration := time.Since(start)

	if err != nil {
		failureEvent(&logger, err).
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// failureEvent logs client errors (4xx) at warn and everything else at error.
func failureEvent(logger *zerolog.Logger, err error) *zerolog.Event {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status < http.StatusInternalServerError {
		return logger.Warn()
	}
	return logger.Error()
}

// Handle wraps a handler with validation, error handling, logging, metrics, and tracing
//
// It returns an echo.HandlerFunc so it can be registered directly on routes.
// req is a template: every request binds into a fresh value of its type.
//
//	router.GET("/get/:id", handler.Handle(h.Handler, h.GetQuestion, http.StatusOK, &question.GetQuestionRequest{}))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleText is Handle for endpoints that answer with a plain text message.
func HandleText[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, string],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, TextResponseHandler{status: status})
	}
}

// newRequest allocates a zero value of the pointer type held by template so
// concurrent requests never bind into the same struct.
func newRequest[Req validation.Validatable](template Req) Req {
	t := reflect.TypeOf(template)
	if t == nil || t.Kind() != reflect.Pointer {
		return template
	}
	return reflect.New(t.Elem()).Interface().(Req)
}
