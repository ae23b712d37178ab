package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig describes an exponential backoff schedule.
type RetryConfig struct {
	// MaxAttempts counts the first call; values below 1 mean a single call.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	// Jitter spreads each delay by up to ±Jitter of its value (0 to 1).
	Jitter float64
	// RetryIf reports whether an error is worth another attempt.
	RetryIf func(error) bool
	// OnRetry observes each scheduled retry before the delay starts.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

// DefaultRetryConfig is three attempts starting at 200ms, doubling up to 5s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		BackoffFactor:  2,
		Jitter:         0.1,
		RetryIf:        DefaultRetryIf,
	}
}

// DefaultRetryIf refuses to retry once the caller's context is finished.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (cfg RetryConfig) withDefaults() RetryConfig {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 100 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 10 * time.Second
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = 2
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = DefaultRetryIf
	}
	return cfg
}

// Retry calls fn until it succeeds, returns an error RetryIf rejects, or the
// attempts run out; the last error is returned. A done ctx stops the loop
// with ctx.Err().
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var (
		zero T
		err  error
	)
	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		var out T
		if out, err = fn(); err == nil {
			return out, nil
		}
		if attempt >= cfg.MaxAttempts || !cfg.RetryIf(err) {
			return zero, err
		}

		delay := backoffFor(attempt, cfg)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return zero, sleepErr
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// backoffFor is the delay after attempt: InitialBackoff * BackoffFactor^(attempt-1),
// jittered, then capped at MaxBackoff.
func backoffFor(attempt int, cfg RetryConfig) time.Duration {
	d := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if cfg.Jitter > 0 {
		d *= 1 + cfg.Jitter*(2*rand.Float64()-1)
	}
	d = math.Min(d, float64(cfg.MaxBackoff))
	if d <= 0 {
		return cfg.InitialBackoff
	}
	return time.Duration(d)
}
