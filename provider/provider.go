package provider

import "context"

// Provider is the identity every backend exposes.
type Provider interface {
	// Name returns the backend name used in config, logs and metrics.
	Name() string
	// IsAvailable reports whether the backend can currently take calls.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a provider from a generic config map.
type Factory[T Provider] func(cfg map[string]any) (T, error)
