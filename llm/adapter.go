package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/getscript/httpclient"
	"github.com/kbukum/getscript/httpclient/rest"
)

// ErrNoDialect is returned by NewWithDialect when dialect is nil.
var ErrNoDialect = errors.New("llm: dialect is required")

// Adapter is a REST text generation client: the rest client handles
// transport, auth and size limits, the Dialect handles the wire format.
type Adapter struct {
	name      string
	rest      *rest.Client
	dialect   Dialect
	model     string
	temp      float64
	maxTokens int
}

// NewWithDialect creates an adapter with an explicit dialect instead of
// looking one up by name.
func NewWithDialect(dialect Dialect, cfg Config, opts ...httpclient.Option) (*Adapter, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	if cfg.Dialect == "" {
		cfg.Dialect = dialect.Name()
	}
	cfg.ApplyDefaults()
	return newAdapter(dialect, cfg, opts...)
}

func newAdapter(dialect Dialect, cfg Config, opts ...httpclient.Option) (*Adapter, error) {
	defaults := dialect.Defaults()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}

	client, err := rest.New(httpclient.Config{
		Name:    cfg.Name,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    dialect.Auth(cfg.APIKey),
		Headers: cfg.Headers,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("llm: create rest client: %w", err)
	}

	return &Adapter{
		name:      cfg.Name,
		rest:      client,
		dialect:   dialect,
		model:     cfg.Model,
		temp:      cfg.Temperature,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Name returns the adapter name.
func (a *Adapter) Name() string { return a.name }

// IsAvailable probes the dialect's health endpoint when it has one.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	if hp := a.dialect.HealthPath(); hp != "" {
		_, err := rest.Get[json.RawMessage](ctx, a.rest, hp)
		return err == nil
	}
	return a.rest.HTTP().IsAvailable(ctx)
}

// Close releases idle connections.
func (a *Adapter) Close() { a.rest.HTTP().Close() }

// Execute sends one completion request.
func (a *Adapter) Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	a.applyDefaults(&req)

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: build request: %w", err)
	}

	resp, err := rest.Post[json.RawMessage](ctx, a.rest, a.dialect.ChatPath(req.Model), body)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: %s: %w", a.dialect.Name(), err)
	}

	result, err := a.dialect.ParseResponse(resp.Data)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: parse response: %w", err)
	}
	if result.Model == "" {
		result.Model = req.Model
	}
	return *result, nil
}

// Dialect returns the dialect used by this adapter.
func (a *Adapter) Dialect() Dialect { return a.dialect }

// Model returns the default model.
func (a *Adapter) Model() string { return a.model }

func (a *Adapter) applyDefaults(req *CompletionRequest) {
	if req.Model == "" {
		req.Model = a.model
	}
	if req.Temperature == 0 {
		req.Temperature = a.temp
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.maxTokens
	}
}
