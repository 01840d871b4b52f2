package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "answer", "error": "must be one of the choices" }
type FieldError struct {
	// Field is the request field the error relates to (e.g. "choices").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: client-facing message. For plain text responses this is the whole body.
//   - Status: HTTP status code.
//   - Override: the message was written for end users and may be shown as is.
//   - Errors: list of per-field errors (validation).
//   - Cause: underlying error, logged server-side only.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors.
	Errors []FieldError `json:"errors"`

	// Cause is excluded from JSON so internal details cannot leak.
	Cause error `json:"-"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
//
// The cause is appended so log lines carry the real failure, while
// responses are always built from Message.
func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// Is reports true for any *HTTPError target.
//
// It only compares the *type*, not Code/Status, so
// errors.Is(err, &HTTPError{}) answers "is this already an API error".
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a *copy* of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Cause:    e.Cause,
	}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
