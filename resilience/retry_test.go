package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		BackoffFactor:  2,
	}
}

func TestRetry_SucceedsAfterRetry(t *testing.T) {
	calls := 0
	got, err := Retry(context.Background(), fastRetry(3), func() (string, error) {
		calls++
		if calls < 3 {
			return "", errUpstream
		}
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("Retry = %q, %v", got, err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_ExceedsMaxAttempts(t *testing.T) {
	calls := 0
	err := retryErr(context.Background(), fastRetry(2), func() error {
		calls++
		return errUpstream
	})
	if !errors.Is(err, errUpstream) {
		t.Errorf("expected last error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRetry_ZeroAttemptsMeansOnce(t *testing.T) {
	calls := 0
	_ = retryErr(context.Background(), RetryConfig{}, func() error {
		calls++
		return errUpstream
	})
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestRetry_RetryIfFilter(t *testing.T) {
	permanent := errors.New("bad request")
	cfg := fastRetry(5)
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	err := retryErr(context.Background(), cfg, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Errorf("expected one call with permanent error, got %d calls, %v", calls, err)
	}
}

func TestRetry_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastRetry(10)
	cfg.InitialBackoff = time.Hour
	cfg.MaxBackoff = time.Hour
	cfg.OnRetry = func(int, error, time.Duration) { cancel() }

	err := retryErr(ctx, cfg, func() error { return errUpstream })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBackoffFor(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, BackoffFactor: 2}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{5, time.Second},
	}
	for _, tt := range tests {
		if got := backoffFor(tt.attempt, cfg); got != tt.want {
			t.Errorf("backoffFor(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestDefaultRetryIf(t *testing.T) {
	if DefaultRetryIf(context.DeadlineExceeded) {
		t.Error("deadline exceeded should not be retried")
	}
	if !DefaultRetryIf(errUpstream) {
		t.Error("generic errors should be retried")
	}
}

func retryErr(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}
