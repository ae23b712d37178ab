package transcription

import "github.com/kbukum/getscript/provider"

var defaultRegistry = NewRegistry()

// NewRegistry creates an empty registry of transcription backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// Register adds a backend factory to the default registry. Backend
// packages call it from init.
func Register(name string, factory provider.Factory[Provider]) {
	defaultRegistry.RegisterFactory(name, factory)
}

// Create builds the named backend from the default registry.
func Create(name string, cfg map[string]any) (Provider, error) {
	return defaultRegistry.Create(name, cfg)
}

// Backends lists the names in the default registry.
func Backends() []string {
	return defaultRegistry.List()
}
