package component

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/getscript/logger"
	"github.com/kbukum/getscript/observability"
)

// stopTimeout bounds each Stop call within the shutdown context.
const stopTimeout = 10 * time.Second

// Registry starts components in registration order and stops them in
// reverse. Only components whose Start succeeded are stopped.
type Registry struct {
	mu         sync.RWMutex
	components []Component
	running    int // components[:running] have started
	log        *logger.Logger
}

// NewRegistry creates an empty registry. A nil logger uses the global one.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Registry{log: log.WithComponent("components")}
}

func (r *Registry) indexOf(name string) int {
	return slices.IndexFunc(r.components, func(c Component) bool { return c.Name() == name })
}

// Register appends c. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(c.Name()) >= 0 {
		return fmt.Errorf("component %s already registered", c.Name())
	}
	r.components = append(r.components, c)
	r.log.Debug("component registered", logger.Fields(logger.FieldComponent, c.Name()))
	return nil
}

// StartAll starts the components that are not running yet and stops at the
// first failure, leaving the earlier ones running for StopAll.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.components[r.running:] {
		if err := c.Start(ctx); err != nil {
			r.log.Error("component start failed", logger.MergeWithError(logger.Fields(logger.FieldComponent, c.Name()), err))
			return fmt.Errorf("failed to start %s: %w", c.Name(), err)
		}
		r.running++
		r.log.Debug("component started", logger.Fields(logger.FieldComponent, c.Name()))
	}
	r.log.Info("all components started", logger.Fields("count", r.running))
	return nil
}

// StopAll stops running components, newest first. Every one is attempted
// and the failures are joined.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for ; r.running > 0; r.running-- {
		c := r.components[r.running-1]
		if err := r.stop(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", c.Name(), err))
			r.log.Error("component stop failed", logger.MergeWithError(logger.Fields(logger.FieldComponent, c.Name()), err))
			continue
		}
		r.log.Debug("component stopped", logger.Fields(logger.FieldComponent, c.Name()))
	}
	return errors.Join(errs...)
}

func (r *Registry) stop(ctx context.Context, c Component) error {
	ctx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	return c.Stop(ctx)
}

// HealthAll reports every registered component, running or not.
func (r *Registry) HealthAll(ctx context.Context) []observability.Health {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]observability.Health, 0, len(r.components))
	for _, c := range r.components {
		out = append(out, c.Health(ctx))
	}
	return out
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(name); i >= 0 {
		return r.components[i]
	}
	return nil
}
