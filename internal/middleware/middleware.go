// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request ids, request logging, CORS, rate limiting,
// panic recovery and rendering errors
package middleware
