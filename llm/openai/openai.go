// Package openai registers the "openai" backend, built on the official
// openai-go SDK (Chat Completions API). Any OpenAI-compatible endpoint can
// be targeted through Config.BaseURL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/kbukum/getscript/httpclient"
	"github.com/kbukum/getscript/llm"
)

// DialectName is the registered backend name.
const DialectName = "openai"

const defaultModel = "gpt-4o-mini"

func init() {
	llm.RegisterFactory(DialectName, func(cfg llm.Config) (llm.Provider, error) {
		return New(cfg)
	})
}

// Provider implements llm.Provider using the OpenAI SDK.
type Provider struct {
	name      string
	client    oai.Client
	model     string
	temp      float64
	maxTokens int
}

// New constructs a Provider from cfg. The SDK's own retries are disabled;
// retry policy is applied by the caller's provider chain.
func New(cfg llm.Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api key must not be empty")
	}
	if cfg.Dialect == "" {
		cfg.Dialect = DialectName
	}
	cfg.ApplyDefaults()
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	for k, v := range cfg.Headers {
		reqOpts = append(reqOpts, option.WithHeader(k, v))
	}

	return &Provider{
		name:      cfg.Name,
		client:    oai.NewClient(reqOpts...),
		model:     cfg.Model,
		temp:      cfg.Temperature,
		maxTokens: cfg.MaxTokens,
	}, nil
}

func (p *Provider) Name() string { return p.name }

// IsAvailable always reports true; availability is tracked by the
// circuit breaker wrapped around the provider.
func (p *Provider) IsAvailable(context.Context) bool { return true }

// Execute runs one chat completion.
func (p *Provider) Execute(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	params, err := p.buildParams(req)
	if err != nil {
		return llm.CompletionResponse{}, fmt.Errorf("openai: build params: %w", err)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return llm.CompletionResponse{}, fmt.Errorf("openai: chat completion: %w", classify(err))
	}
	if len(resp.Choices) == 0 {
		return llm.CompletionResponse{}, errors.New("openai: empty choices in response")
	}

	choice := resp.Choices[0]
	return llm.CompletionResponse{
		Content:      choice.Message.Content,
		Model:        resp.Model,
		FinishReason: choice.FinishReason,
		Usage: llm.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// classify turns SDK status errors into httpclient errors so callers can
// use one retry predicate for every backend.
func classify(err error) error {
	var apiErr *oai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	e := httpclient.ClassifyStatusCode(apiErr.StatusCode, []byte(apiErr.RawJSON()))
	if e == nil {
		return err
	}
	e.Err = err
	return e
}

func (p *Provider) buildParams(req llm.CompletionRequest) (oai.ChatCompletionNewParams, error) {
	var messages []oai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, oai.SystemMessage(req.SystemPrompt))
	}
	for _, m := range req.Messages {
		msg, err := convertMessage(m)
		if err != nil {
			return oai.ChatCompletionNewParams{}, err
		}
		messages = append(messages, msg)
	}

	model := req.Model
	if model == "" {
		model = p.model
	}
	params := oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: messages,
	}

	temp := req.Temperature
	if temp == 0 {
		temp = p.temp
	}
	if temp != 0 {
		params.Temperature = param.NewOpt(temp)
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.maxTokens
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(maxTokens))
	}
	return params, nil
}

func convertMessage(m llm.Message) (oai.ChatCompletionMessageParamUnion, error) {
	switch m.Role {
	case "system":
		return oai.SystemMessage(m.Content), nil
	case "user":
		return oai.UserMessage(m.Content), nil
	case "assistant":
		return oai.AssistantMessage(m.Content), nil
	default:
		return oai.ChatCompletionMessageParamUnion{}, fmt.Errorf("openai: unknown message role %q", m.Role)
	}
}
