package provider

import "context"

// RequestResponse is a backend with a single call per input.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Func adapts a function into a RequestResponse.
type Func[I, O any] struct {
	ProviderName string
	Available    func(ctx context.Context) bool
	Fn           func(ctx context.Context, input I) (O, error)
}

func (f *Func[I, O]) Name() string { return f.ProviderName }

func (f *Func[I, O]) IsAvailable(ctx context.Context) bool {
	if f.Available == nil {
		return true
	}
	return f.Available(ctx)
}

func (f *Func[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.Fn(ctx, input)
}
