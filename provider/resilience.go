package provider

import (
	"time"

	"github.com/kbukum/getscript/logger"
	"github.com/kbukum/getscript/resilience"
)

// ResilienceConfig selects which resilience patterns wrap a provider.
// A nil field disables that pattern.
type ResilienceConfig struct {
	CircuitBreaker *resilience.CircuitBreakerConfig
	Retry          *resilience.RetryConfig
	RateLimiter    *resilience.RateLimiterConfig
}

// IsEmpty reports whether no pattern is configured.
func (c ResilienceConfig) IsEmpty() bool {
	return c.CircuitBreaker == nil && c.Retry == nil && c.RateLimiter == nil
}

// ResilienceState holds the live instances built from a ResilienceConfig.
type ResilienceState struct {
	cb       *resilience.CircuitBreaker
	rl       *resilience.RateLimiter
	retryCfg *resilience.RetryConfig
}

// BuildResilience creates the runtime state; nil when cfg is empty.
func BuildResilience(cfg ResilienceConfig) *ResilienceState {
	if cfg.IsEmpty() {
		return nil
	}
	s := &ResilienceState{retryCfg: cfg.Retry}
	if cfg.CircuitBreaker != nil {
		cbCfg := *cfg.CircuitBreaker
		if cbCfg.OnStateChange == nil {
			cbCfg.OnStateChange = logStateChange
		}
		s.cb = resilience.NewCircuitBreaker(cbCfg)
	}
	if s.retryCfg != nil && s.retryCfg.OnRetry == nil {
		rc := *s.retryCfg
		rc.OnRetry = func(attempt int, err error, backoff time.Duration) {
			logger.GetGlobalLogger().Debug("retrying provider call", logger.MergeWithError(
				logger.Fields("attempt", attempt, "backoff", backoff.String()), err,
			))
		}
		s.retryCfg = &rc
	}
	if cfg.RateLimiter != nil {
		s.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
	}
	return s
}

func logStateChange(name string, from, to resilience.State) {
	fields := logger.Fields("provider", name, "from", from.String(), "to", to.String())
	if to == resilience.StateOpen {
		logger.Warn("circuit breaker opened", fields)
		return
	}
	logger.Info("circuit breaker state changed", fields)
}

// CircuitBreaker returns the breaker, if one is configured.
func (s *ResilienceState) CircuitBreaker() *resilience.CircuitBreaker {
	if s == nil {
		return nil
	}
	return s.cb
}

// ResilienceSettings is the YAML form of a ResilienceConfig.
type ResilienceSettings struct {
	CircuitBreaker CircuitBreakerSettings `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	Retry          RetrySettings          `yaml:"retry" mapstructure:"retry"`
	RateLimit      RateLimitSettings      `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// CircuitBreakerSettings configures the breaker; disabled unless Enabled.
type CircuitBreakerSettings struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxFailures int           `yaml:"max_failures" mapstructure:"max_failures"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// RetrySettings configures retries; MaxAttempts <= 1 disables them.
type RetrySettings struct {
	MaxAttempts    int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
}

// RateLimitSettings configures a client-side token bucket; Rate <= 0 disables it.
type RateLimitSettings struct {
	Rate  float64 `yaml:"rate" mapstructure:"rate"`
	Burst int     `yaml:"burst" mapstructure:"burst"`
}

// Build converts settings into a ResilienceConfig for the named provider.
// retryIf may be nil to use resilience.DefaultRetryIf.
func (s ResilienceSettings) Build(name string, retryIf func(error) bool) ResilienceConfig {
	var cfg ResilienceConfig
	if s.CircuitBreaker.Enabled {
		cb := resilience.DefaultCircuitBreakerConfig(name)
		if s.CircuitBreaker.MaxFailures > 0 {
			cb.MaxFailures = s.CircuitBreaker.MaxFailures
		}
		if s.CircuitBreaker.Timeout > 0 {
			cb.Timeout = s.CircuitBreaker.Timeout
		}
		cfg.CircuitBreaker = &cb
	}
	if s.Retry.MaxAttempts > 1 {
		rc := resilience.DefaultRetryConfig()
		rc.MaxAttempts = s.Retry.MaxAttempts
		if s.Retry.InitialBackoff > 0 {
			rc.InitialBackoff = s.Retry.InitialBackoff
		}
		if s.Retry.MaxBackoff > 0 {
			rc.MaxBackoff = s.Retry.MaxBackoff
		}
		if retryIf != nil {
			rc.RetryIf = retryIf
		}
		cfg.Retry = &rc
	}
	if s.RateLimit.Rate > 0 {
		cfg.RateLimiter = &resilience.RateLimiterConfig{Name: name, Rate: s.RateLimit.Rate, Burst: s.RateLimit.Burst}
	}
	return cfg
}
