package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/getscript/component"
	"github.com/kbukum/getscript/logger"
	"github.com/kbukum/getscript/observability"
)

const defaultGracefulTimeout = 15 * time.Second

// App is a service with uniform lifecycle management. C is the typed
// configuration.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	onStart         []Hook
	onReady         []Hook
	onStop          []Hook
}

// NewApp applies defaults, validates the config and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	log := o.logger
	if log == nil {
		log = logger.New(&base.Logging, base.Name)
		logger.SetGlobalLogger(log)
	}

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(log),
		Logger:          log,
		gracefulTimeout: o.gracefulTimeout,
	}
	return app, nil
}

// RegisterComponent adds a component. Components start in registration
// order and stop in reverse.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck returns an error naming every component that is not up.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var notUp []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == observability.HealthStatusUp {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		notUp = append(notUp, detail)
	}
	if len(notUp) > 0 {
		return fmt.Errorf("components not up: %s", strings.Join(notUp, ", "))
	}
	return nil
}

// Run starts the app, blocks until SIGINT, SIGTERM or ctx cancellation,
// then shuts down gracefully.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	a.WaitForSignal(ctx)
	return a.Shutdown(context.Background())
}

// Start starts components and runs the start and ready hooks. A failed
// start stops whatever already started.
func (a *App[C]) Start(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return errors.Join(fmt.Errorf("start components: %w", err), a.Shutdown(context.Background()))
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return errors.Join(fmt.Errorf("onStart hook: %w", err), a.Shutdown(context.Background()))
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return errors.Join(fmt.Errorf("onReady hook: %w", err), a.Shutdown(context.Background()))
	}

	a.Logger.Info("application ready", logger.DurationFields("startup", time.Since(start)))
	return nil
}

// WaitForSignal blocks until an OS interrupt/term signal or context
// cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("context canceled, shutting down")
		return nil
	}
}

// Shutdown runs the stop hooks and stops all started components within
// the graceful timeout.
func (a *App[C]) Shutdown(ctx context.Context) error {
	a.Logger.Info("graceful shutdown started", logger.Fields("timeout", a.gracefulTimeout.String()))
	ctx, cancel := context.WithTimeout(ctx, a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook error", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}

	a.Logger.Info("application stopped")
	return errors.Join(errs...)
}
