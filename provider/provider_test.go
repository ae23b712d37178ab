package provider

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/getscript/errors"
	"github.com/kbukum/getscript/logger"
)

var errBackend = errors.New("backend down")

type countingRR struct {
	name  string
	calls int
	fail  int // number of leading calls that fail
}

func (c *countingRR) Name() string                     { return c.name }
func (c *countingRR) IsAvailable(context.Context) bool { return true }
func (c *countingRR) Execute(_ context.Context, in string) (string, error) {
	c.calls++
	if c.calls <= c.fail {
		return "", errBackend
	}
	return strings.ToUpper(in), nil
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry[RequestResponse[string, string]]()
	reg.RegisterFactory("upper", func(cfg map[string]any) (RequestResponse[string, string], error) {
		return &countingRR{name: cfg["name"].(string)}, nil
	})
	reg.RegisterFactory("alpha", func(map[string]any) (RequestResponse[string, string], error) {
		return &countingRR{name: "alpha"}, nil
	})

	p, err := reg.Create("upper", map[string]any{"name": "custom"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Name() != "custom" {
		t.Errorf("name = %q", p.Name())
	}
	if got := reg.List(); len(got) != 2 || got[0] != "alpha" {
		t.Errorf("List = %v", got)
	}
	if _, err := reg.Create("missing", nil); err == nil || !strings.Contains(err.Error(), `unknown backend "missing"`) {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(tag string) Middleware[string, string] {
		return func(inner RequestResponse[string, string]) RequestResponse[string, string] {
			return &Func[string, string]{
				ProviderName: inner.Name(),
				Fn: func(ctx context.Context, in string) (string, error) {
					order = append(order, tag)
					return inner.Execute(ctx, in)
				},
			}
		}
	}
	p := Chain(mark("a"), mark("b"))(&countingRR{name: "x"})
	out, err := p.Execute(context.Background(), "hi")
	if err != nil || out != "HI" {
		t.Fatalf("Execute = %q, %v", out, err)
	}
	if strings.Join(order, ",") != "a,b" {
		t.Errorf("order = %v", order)
	}
}

func TestWithResilienceRetries(t *testing.T) {
	inner := &countingRR{name: "gen", fail: 2}
	cfg := ResilienceSettings{
		Retry: RetrySettings{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
	}.Build("gen", nil)

	out, err := WithResilience[string, string](inner, cfg).Execute(context.Background(), "ok")
	if err != nil || out != "OK" {
		t.Fatalf("Execute = %q, %v", out, err)
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestWithResilienceCircuitOpen(t *testing.T) {
	inner := &countingRR{name: "gen", fail: 100}
	cfg := ResilienceSettings{
		CircuitBreaker: CircuitBreakerSettings{Enabled: true, MaxFailures: 1, Timeout: time.Hour},
	}.Build("gen", nil)
	p := WithResilience[string, string](inner, cfg)

	if _, err := p.Execute(context.Background(), "a"); !errors.Is(err, errBackend) {
		t.Fatalf("first call should surface backend error, got %v", err)
	}
	if p.IsAvailable(context.Background()) {
		t.Error("provider should be unavailable while open")
	}

	_, err := p.Execute(context.Background(), "b")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeServiceUnavailable {
		t.Fatalf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("open circuit should not call backend, calls = %d", inner.calls)
	}
}

func TestWithResilienceEmptyIsIdentity(t *testing.T) {
	inner := &countingRR{name: "gen"}
	if p := WithResilience[string, string](inner, ResilienceConfig{}); p != RequestResponse[string, string](inner) {
		t.Error("empty config should return the provider unchanged")
	}
}

func TestResilienceSettingsBuild(t *testing.T) {
	cfg := ResilienceSettings{RateLimit: RateLimitSettings{Rate: 2, Burst: 4}}.Build("gen", nil)
	if cfg.RateLimiter == nil || cfg.RateLimiter.Burst != 4 {
		t.Errorf("rate limiter = %+v", cfg.RateLimiter)
	}
	if cfg.Retry != nil || cfg.CircuitBreaker != nil {
		t.Error("unset patterns should stay nil")
	}
	if !(ResilienceSettings{Retry: RetrySettings{MaxAttempts: 1}}).Build("x", nil).IsEmpty() {
		t.Error("a single attempt should not enable retry")
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	p := WithLogging[string, string](log)(&countingRR{name: "gen", fail: 1})

	_, _ = p.Execute(context.Background(), "x")
	if !strings.Contains(buf.String(), "provider call failed") || !strings.Contains(buf.String(), `"provider":"gen"`) {
		t.Errorf("unexpected log output %q", buf.String())
	}
	buf.Reset()
	_, _ = p.Execute(context.Background(), "x")
	if !strings.Contains(buf.String(), "provider call ok") {
		t.Errorf("unexpected log output %q", buf.String())
	}
}

func TestWithTracingPassesThrough(t *testing.T) {
	p := WithTracing[string, string]("test")(&countingRR{name: "gen"})
	out, err := p.Execute(context.Background(), "abc")
	if err != nil || out != "ABC" {
		t.Errorf("Execute = %q, %v", out, err)
	}
	if p.Name() != "gen" {
		t.Errorf("Name = %q", p.Name())
	}
}

func TestBuildResilienceLogsBreakerTransitions(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.GetGlobalLogger()
	logger.SetGlobalLogger(logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf))
	defer logger.SetGlobalLogger(prev)

	cfg := ResilienceSettings{CircuitBreaker: CircuitBreakerSettings{Enabled: true, MaxFailures: 1}}.Build("deepgram", nil)
	state := BuildResilience(cfg)
	_ = state.CircuitBreaker().Execute(func() error { return errors.New("boom") })

	if !strings.Contains(buf.String(), "circuit breaker opened") || !strings.Contains(buf.String(), `"provider":"deepgram"`) {
		t.Errorf("unexpected log output %q", buf.String())
	}
	if cfg.CircuitBreaker.OnStateChange != nil {
		t.Error("BuildResilience should not mutate the caller's config")
	}
}
