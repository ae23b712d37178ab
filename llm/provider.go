package llm

import "github.com/kbukum/getscript/provider"

// Provider is a text generation backend. Adapters and SDK-backed
// providers both satisfy it, as does anything composed with
// provider middleware.
type Provider = provider.RequestResponse[CompletionRequest, CompletionResponse]

// New builds the provider named by cfg.Dialect. SDK factories are
// consulted first, then REST dialects.
func New(cfg Config) (Provider, error) {
	cfg.ApplyDefaults()
	if f, ok := getFactory(cfg.Dialect); ok {
		return f(cfg)
	}
	dialect, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return newAdapter(dialect, cfg)
}
