// Package errs defines the error types the API returns to clients.
//
// Every failure that reaches the HTTP layer is an *HTTPError carrying
// the status, a stable code and a message that is safe to show. The
// underlying cause (driver error, decode error) stays attached for
// logging and never reaches the response body.
package errs
