package process

import (
	"context"
	"os/exec"
	"time"

	"github.com/kbukum/getscript/provider"
	"github.com/kbukum/getscript/resilience"
)

var _ provider.RequestResponse[Command, *Result] = (*Runner)(nil)

// Config configures a Runner.
type Config struct {
	// Name identifies the runner in logs and errors.
	Name string `yaml:"name,omitempty" mapstructure:"name"`
	// GracePeriod is the default SIGTERM to SIGKILL delay.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout bounds each Run. Zero means no timeout beyond the caller's context.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
	// Resilience wraps each Run. The zero value runs once with no wrapping.
	Resilience provider.ResilienceConfig `yaml:"-" mapstructure:"-"`
}

// Runner executes subprocesses with shared defaults and resilience state.
// The circuit breaker persists across calls, so repeated crashes trip it.
type Runner struct {
	config Config
	state  *provider.ResilienceState
}

// NewRunner creates a Runner.
func NewRunner(cfg Config) *Runner {
	return &Runner{config: cfg, state: provider.BuildResilience(cfg.Resilience)}
}

// Run executes cmd through the configured timeout and resilience chain.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.GracePeriod == 0 && r.config.GracePeriod > 0 {
		cmd.GracePeriod = r.config.GracePeriod
	}
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}
	if r.state == nil {
		return Run(ctx, cmd)
	}
	return provider.ExecuteWithResilience(ctx, r.state, func() (*Result, error) {
		return Run(ctx, cmd)
	})
}

// Name returns the runner name.
func (r *Runner) Name() string { return r.config.Name }

// IsAvailable is false while the runner's circuit breaker is open.
func (r *Runner) IsAvailable(_ context.Context) bool {
	if cb := r.state.CircuitBreaker(); cb != nil {
		return cb.State() != resilience.StateOpen
	}
	return true
}

// Execute is Run under the provider.RequestResponse contract.
func (r *Runner) Execute(ctx context.Context, cmd Command) (*Result, error) {
	return r.Run(ctx, cmd)
}

// LookPath reports the resolved path of binary, or an error when it is
// not installed.
func LookPath(binary string) (string, error) {
	return exec.LookPath(binary)
}
