// Package errors provides the structured error type shared by every layer of
// the service. Errors carry a machine-readable code, a client-facing message,
// an HTTP status and optional details, and wrap their cause for errors.Is/As.
package errors
