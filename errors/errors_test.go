package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_AcquisitionFailed_MessageVerbatim(t *testing.T) {
	cause := fmt.Errorf("yt-dlp: ERROR: Video unavailable")
	err := AcquisitionFailed("stream", cause)
	if err.Message != cause.Error() {
		t.Errorf("expected message %q, got %q", cause.Error(), err.Message)
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", err.HTTPStatus)
	}
	if err.Details["reason"] != "stream" {
		t.Errorf("expected reason=stream, got %v", err.Details["reason"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestAppError_TranscriptionFailed_NilCause(t *testing.T) {
	err := TranscriptionFailed("deepgram", nil)
	if err.Message != "transcription failed" {
		t.Errorf("unexpected default message %q", err.Message)
	}
	if err.Details["provider"] != "deepgram" {
		t.Errorf("expected provider=deepgram, got %v", err.Details["provider"])
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Validation("bad").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
	}{
		{"ServiceUnavailable", ServiceUnavailable("llm"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable, true},
		{"Timeout", Timeout("acquisition"), ErrCodeTimeout, http.StatusGatewayTimeout, true},
		{"RateLimited", RateLimited(), ErrCodeRateLimited, http.StatusTooManyRequests, true},
		{"InvalidInput", InvalidInput("url", "bad"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"MissingField", MissingField("url"), ErrCodeMissingField, http.StatusBadRequest, false},
		{"Configuration", Configuration("missing key"), ErrCodeConfiguration, http.StatusInternalServerError, false},
		{"NoUtterances", NoUtterances(), ErrCodeNoUtterances, http.StatusInternalServerError, false},
		{"Internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.HTTPStatus != tt.status {
				t.Errorf("status = %d, want %d", tt.err.HTTPStatus, tt.status)
			}
			if tt.err.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", tt.err.Retryable, tt.retryable)
			}
		})
	}
}

func TestFrom(t *testing.T) {
	if From(nil) != nil {
		t.Error("From(nil) should be nil")
	}
	app := NoUtterances()
	wrapped := fmt.Errorf("stage: %w", app)
	if got := From(wrapped); got != app {
		t.Errorf("expected the wrapped AppError back, got %v", got)
	}
	plain := From(fmt.Errorf("boom"))
	if plain.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", plain.Code)
	}
}
