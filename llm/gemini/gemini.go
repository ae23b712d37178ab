// Package gemini registers the "gemini" dialect for the Google Generative
// Language API (generateContent).
package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kbukum/getscript/httpclient"
	"github.com/kbukum/getscript/llm"
)

// DialectName is the registered dialect name.
const DialectName = "gemini"

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
	apiKeyHeader   = "x-goog-api-key"
)

// ErrNoCandidates is returned when the response carries no usable text,
// e.g. because the prompt was blocked.
var ErrNoCandidates = errors.New("gemini: response has no candidates")

func init() {
	llm.RegisterDialect(DialectName, Dialect{})
}

// Dialect maps llm requests to generateContent.
type Dialect struct{}

func (Dialect) Name() string { return DialectName }

func (Dialect) Defaults() llm.Defaults {
	return llm.Defaults{BaseURL: defaultBaseURL, Model: defaultModel}
}

func (Dialect) ChatPath(model string) string {
	return "/v1beta/models/" + model + ":generateContent"
}

func (Dialect) HealthPath() string { return "" }

func (Dialect) Auth(apiKey string) *httpclient.AuthConfig {
	return httpclient.APIKeyHeader(apiKeyHeader, apiKey)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

// BuildRequest maps roles onto Gemini's "user"/"model" pair. System
// messages in the history are folded into the system instruction.
func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	var system []string
	if req.SystemPrompt != "" {
		system = append(system, req.SystemPrompt)
	}

	out := generateRequest{}
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			system = append(system, m.Content)
		case "assistant", "model":
			out.Contents = append(out.Contents, content{Role: "model", Parts: []part{{Text: m.Content}}})
		case "user", "":
			out.Contents = append(out.Contents, content{Role: "user", Parts: []part{{Text: m.Content}}})
		default:
			return nil, fmt.Errorf("gemini: unknown message role %q", m.Role)
		}
	}
	if len(out.Contents) == 0 {
		return nil, errors.New("gemini: at least one user message is required")
	}
	if len(system) > 0 {
		out.SystemInstruction = &content{Parts: []part{{Text: strings.Join(system, "\n\n")}}}
	}
	if req.Temperature != 0 || req.MaxTokens > 0 {
		gc := &generationConfig{MaxOutputTokens: req.MaxTokens}
		if req.Temperature != 0 {
			t := req.Temperature
			gc.Temperature = &t
		}
		out.GenerationConfig = gc
	}
	return out, nil
}

func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: blocked (%s)", ErrNoCandidates, resp.PromptFeedback.BlockReason)
		}
		return nil, ErrNoCandidates
	}

	cand := resp.Candidates[0]
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		sb.WriteString(p.Text)
	}
	return &llm.CompletionResponse{
		Content:      sb.String(),
		Model:        resp.ModelVersion,
		FinishReason: cand.FinishReason,
		Usage: llm.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}
