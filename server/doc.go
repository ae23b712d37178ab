// Package server provides the HTTP server: a gin engine served over
// HTTP/1.1 and h2c behind a net/http middleware stack.
//
// # Middleware
//
// Applied to every route, outermost first (server/middleware):
//
//   - RequestID: X-Request-Id generation and propagation
//   - RequestLogger: request logging with status and duration
//   - Recovery: panics become JSON 500 responses
//   - CORS: cross-origin headers and preflight
//   - BodySizeLimit: request body ceiling
//   - Timeout: per-request context deadline
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: service and dependency health
//   - /info: build and version information
package server
