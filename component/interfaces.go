package component

import (
	"context"

	"github.com/kbukum/getscript/observability"
)

// Component is a lifecycle-managed part of the service.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) observability.Health
}

// Func adapts plain functions into a Component. Nil functions are no-ops
// and a nil HealthFn reports the component as up.
type Func struct {
	ComponentName string
	StartFn       func(ctx context.Context) error
	StopFn        func(ctx context.Context) error
	HealthFn      func(ctx context.Context) observability.Health
}

func (f *Func) Name() string { return f.ComponentName }

func (f *Func) Start(ctx context.Context) error {
	if f.StartFn == nil {
		return nil
	}
	return f.StartFn(ctx)
}

func (f *Func) Stop(ctx context.Context) error {
	if f.StopFn == nil {
		return nil
	}
	return f.StopFn(ctx)
}

func (f *Func) Health(ctx context.Context) observability.Health {
	if f.HealthFn == nil {
		return observability.Health{Name: f.ComponentName, Status: observability.HealthStatusUp}
	}
	return f.HealthFn(ctx)
}
