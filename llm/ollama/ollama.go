// Package ollama registers the "ollama" dialect for a local Ollama server's
// /api/chat endpoint.
package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/getscript/httpclient"
	"github.com/kbukum/getscript/llm"
)

// DialectName is the registered dialect name.
const DialectName = "ollama"

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3"
)

func init() {
	llm.RegisterDialect(DialectName, Dialect{})
}

// Dialect maps llm requests to Ollama's chat API.
type Dialect struct{}

func (Dialect) Name() string { return DialectName }

func (Dialect) Defaults() llm.Defaults {
	return llm.Defaults{BaseURL: defaultBaseURL, Model: defaultModel}
}

func (Dialect) ChatPath(string) string { return "/api/chat" }

func (Dialect) HealthPath() string { return "/api/tags" }

// Auth sends a bearer token when one is configured, for servers behind a proxy.
func (Dialect) Auth(apiKey string) *httpclient.AuthConfig {
	if apiKey == "" {
		return nil
	}
	return httpclient.BearerAuth(apiKey)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	DoneReason      string      `json:"done_reason,omitempty"`
	PromptEvalCount int         `json:"prompt_eval_count,omitempty"`
	EvalCount       int         `json:"eval_count,omitempty"`
}

// BuildRequest always asks for a non-streamed reply.
func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	msgs := make([]chatMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}

	out := chatRequest{Model: req.Model, Messages: msgs}
	if req.Temperature != 0 || req.MaxTokens > 0 {
		out.Options = &chatOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens}
	}
	return out, nil
}

func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	return &llm.CompletionResponse{
		Content:      resp.Message.Content,
		Model:        resp.Model,
		FinishReason: resp.DoneReason,
		Usage: llm.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}
