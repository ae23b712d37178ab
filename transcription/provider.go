package transcription

import (
	"context"
	"errors"

	"github.com/kbukum/getscript/provider"
)

// ErrNoUtterances reports a successful call that produced no speech
// segments. It is distinct from transport and upstream failures.
var ErrNoUtterances = errors.New("transcription: no utterances found")

// Provider is the interface speech-to-text backends implement.
type Provider interface {
	provider.Provider

	// Transcribe sends audio for transcription and returns the result.
	// A result with zero utterances is reported as ErrNoUtterances.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// AsRequestResponse exposes p as a provider.RequestResponse so it can be
// wrapped with provider middleware.
func AsRequestResponse(p Provider) provider.RequestResponse[Request, *Response] {
	return &provider.Func[Request, *Response]{
		ProviderName: p.Name(),
		Available:    p.IsAvailable,
		Fn:           p.Transcribe,
	}
}
