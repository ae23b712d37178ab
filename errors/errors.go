package errors

import (
	"fmt"
	"net/http"
)

// AppError carries everything the HTTP boundary needs to answer a failed
// request: a stable code, the client-facing message and the status.
type AppError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	// HTTPStatus is the status the error is answered with.
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	// Cause is kept for logs and never serialized.
	Cause error `json:"-"`
}

func newError(code ErrorCode, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail records key=value in Details and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

func (e *AppError) retryable() *AppError {
	e.Retryable = true
	return e
}

// causeMessage surfaces cause verbatim, or fallback when there is none.
func causeMessage(cause error, fallback string) string {
	if cause == nil {
		return fallback
	}
	return cause.Error()
}

// ServiceUnavailable reports a dependency that is down for now.
func ServiceUnavailable(service string) *AppError {
	return newError(ErrCodeServiceUnavailable, http.StatusServiceUnavailable,
		fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service)).
		WithDetail("service", service).retryable()
}

// Timeout reports an operation that ran past its ceiling.
func Timeout(operation string) *AppError {
	return newError(ErrCodeTimeout, http.StatusGatewayTimeout,
		fmt.Sprintf("%s took too long.", operation)).
		WithDetail("operation", operation).retryable()
}

// RateLimited reports an upstream quota rejection.
func RateLimited() *AppError {
	return newError(ErrCodeRateLimited, http.StatusTooManyRequests,
		"Too many requests. Please wait a moment and try again.").retryable()
}

// InvalidInput rejects a request parameter. field may be empty.
func InvalidInput(field, reason string) *AppError {
	e := newError(ErrCodeInvalidInput, http.StatusBadRequest, "Invalid input: "+reason)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation rejects input with a ready-made message.
func Validation(message string) *AppError {
	return newError(ErrCodeInvalidInput, http.StatusBadRequest, message)
}

// MissingField rejects a request that lacks a required parameter.
func MissingField(field string) *AppError {
	return newError(ErrCodeMissingField, http.StatusBadRequest, "Missing required field: "+field).
		WithDetail("field", field)
}

// Configuration reports a missing credential or setting.
func Configuration(message string) *AppError {
	return newError(ErrCodeConfiguration, http.StatusInternalServerError, message)
}

// AcquisitionFailed wraps an audio extraction failure. reason is one of
// "timeout", "stream" or "empty".
func AcquisitionFailed(reason string, cause error) *AppError {
	return newError(ErrCodeAcquisition, http.StatusInternalServerError,
		causeMessage(cause, "audio acquisition failed")).
		WithDetail("reason", reason).WithCause(cause)
}

// TranscriptionFailed wraps a speech-to-text failure.
func TranscriptionFailed(provider string, cause error) *AppError {
	return newError(ErrCodeTranscription, http.StatusInternalServerError,
		causeMessage(cause, "transcription failed")).
		WithDetail("provider", provider).WithCause(cause)
}

// NoUtterances reports a transcript without any recognised speech.
func NoUtterances() *AppError {
	return newError(ErrCodeNoUtterances, http.StatusInternalServerError,
		"no utterances were found in the transcription")
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return newError(ErrCodeInternal, http.StatusInternalServerError,
		"An unexpected error occurred.").WithCause(cause)
}
