package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is the failure class of an outbound call.
type ErrorCode int

const (
	ErrCodeTimeout    ErrorCode = iota // deadline or client timeout
	ErrCodeConnection                  // refused, DNS, reset
	ErrCodeAuth                        // 401 and 403
	ErrCodeNotFound                    // 404
	ErrCodeRateLimit                   // 429
	ErrCodeValidation                  // other 4xx, or a request that could not be built
	ErrCodeServer                      // 5xx
	ErrCodeTooLarge                    // body over MaxResponseBytes
)

var errorCodeNames = [...]string{
	ErrCodeTimeout:    "timeout",
	ErrCodeConnection: "connection",
	ErrCodeAuth:       "auth",
	ErrCodeNotFound:   "not_found",
	ErrCodeRateLimit:  "rate_limit",
	ErrCodeValidation: "validation",
	ErrCodeServer:     "server",
	ErrCodeTooLarge:   "too_large",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(errorCodeNames) {
		return "unknown"
	}
	return errorCodeNames[c]
}

// Error is a classified outbound failure. StatusCode is zero when no
// response arrived.
type Error struct {
	StatusCode int
	Code       ErrorCode
	// Message is the upstream's own message when the body carried one.
	Message   string
	Retryable bool
	Body      []byte
	Err       error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewTimeoutError wraps a timed out call.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

func connectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

func requestError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

func tooLargeError(limit int64) *Error {
	return &Error{Code: ErrCodeTooLarge, Message: fmt.Sprintf("response exceeds %d bytes", limit)}
}

// ClassifyStatusCode turns a non-2xx response into an Error and returns nil
// for 2xx. 429 and 5xx are retryable.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	e := &Error{StatusCode: statusCode, Body: body, Message: upstreamMessage(statusCode, body)}
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Code = ErrCodeAuth
	case http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case http.StatusTooManyRequests:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	default:
		if statusCode >= 400 && statusCode < 500 {
			e.Code = ErrCodeValidation
		} else {
			e.Code, e.Retryable = ErrCodeServer, statusCode >= 500
		}
	}
	return e
}

// upstreamMessage extracts the message from the error bodies the pipeline's
// upstreams send: Deepgram {"err_msg"}, Gemini and OpenAI
// {"error":{"message"}}, whisper sidecars {"error":"..."} or {"message"}.
// Short plain-text bodies are used as is; anything else yields the status text.
func upstreamMessage(statusCode int, body []byte) string {
	var shape struct {
		ErrMsg  string          `json:"err_msg"`
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &shape) == nil {
		if msg := firstNonEmpty(shape.ErrMsg, nestedMessage(shape.Error), shape.Message); msg != "" {
			return msg
		}
	}
	text := strings.TrimSpace(string(body))
	if text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(statusCode)
}

func nestedMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &obj)
	return obj.Message
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsTimeout reports whether err is a classified timeout.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsRetryable reports whether err is a classified, retryable failure.
func IsRetryable(err error) bool {
	e, ok := errors.AsType[*Error](err)
	return ok && e.Retryable
}

func hasCode(err error, code ErrorCode) bool {
	e, ok := errors.AsType[*Error](err)
	return ok && e.Code == code
}
