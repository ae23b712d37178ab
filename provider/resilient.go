package provider

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/getscript/errors"
	"github.com/kbukum/getscript/resilience"
)

// WithResilience wraps p with the patterns in cfg. Order, outermost first:
// rate limiter, circuit breaker, retry. A breaker trip therefore counts one
// failure per logical call, not per retry attempt.
func WithResilience[I, O any](p RequestResponse[I, O], cfg ResilienceConfig) RequestResponse[I, O] {
	if cfg.IsEmpty() {
		return p
	}
	return &resilientRR[I, O]{inner: p, state: BuildResilience(cfg)}
}

// Resilient is WithResilience in Middleware form.
func Resilient[I, O any](cfg ResilienceConfig) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return WithResilience(inner, cfg)
	}
}

type resilientRR[I, O any] struct {
	inner RequestResponse[I, O]
	state *ResilienceState
}

func (r *resilientRR[I, O]) Name() string { return r.inner.Name() }

// IsAvailable is false while the circuit is open.
func (r *resilientRR[I, O]) IsAvailable(ctx context.Context) bool {
	if cb := r.state.CircuitBreaker(); cb != nil && cb.State() == resilience.StateOpen {
		return false
	}
	return r.inner.IsAvailable(ctx)
}

func (r *resilientRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return ExecuteWithResilience(ctx, r.state, func() (O, error) {
		return r.inner.Execute(ctx, input)
	})
}

// ExecuteWithResilience runs fn through the patterns held by s.
func ExecuteWithResilience[T any](ctx context.Context, s *ResilienceState, fn func() (T, error)) (T, error) {
	if s == nil {
		return fn()
	}

	if s.rl != nil {
		if err := s.rl.Wait(ctx); err != nil {
			var zero T
			return zero, wrapResilienceError(err)
		}
	}

	call := fn
	if s.retryCfg != nil {
		retryCfg := *s.retryCfg
		call = func() (T, error) {
			return resilience.Retry(ctx, retryCfg, fn)
		}
	}

	if s.cb == nil {
		return call()
	}

	var result T
	var resultErr error
	cbErr := s.cb.Execute(func() error {
		result, resultErr = call()
		return resultErr
	})
	if cbErr != nil && resultErr == nil {
		return result, wrapResilienceError(cbErr)
	}
	return result, resultErr
}

func wrapResilienceError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return apperrors.ServiceUnavailable("provider").WithCause(err)
	case errors.Is(err, resilience.ErrRateLimited):
		return apperrors.RateLimited().WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout("provider call").WithCause(err)
	default:
		return err
	}
}
