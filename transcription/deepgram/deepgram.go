// Package deepgram implements transcription.Provider on Deepgram's
// prerecorded audio API (POST /v1/listen).
package deepgram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/getscript/httpclient"
	"github.com/kbukum/getscript/httpclient/rest"
	"github.com/kbukum/getscript/provider"
	"github.com/kbukum/getscript/transcription"
)

const (
	// ProviderName is the registered name for the Deepgram provider.
	ProviderName = "deepgram"

	defaultBaseURL          = "https://api.deepgram.com"
	defaultModel            = "nova-2"
	defaultLanguage         = "en"
	defaultTimeout          = 120 * time.Second
	defaultMaxResponseBytes = 100 << 20
	defaultUttSplit         = 5
	defaultMimeType         = "audio/webm"
)

func init() {
	transcription.Register(ProviderName, Factory())
}

// Config holds configuration for the Deepgram provider.
type Config struct {
	APIKey   string `json:"api_key"`
	BaseURL  string `json:"base_url"`
	Model    string `json:"model"`
	Language string `json:"language"`
	// UttSplit is the silence gap in seconds that ends an utterance.
	UttSplit         float64                     `json:"utt_split"`
	Timeout          time.Duration               `json:"timeout"`
	MaxResponseBytes int64                       `json:"max_response_bytes"`
	Resilience       provider.ResilienceSettings `json:"resilience"`
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Language == "" {
		c.Language = defaultLanguage
	}
	if c.UttSplit <= 0 {
		c.UttSplit = defaultUttSplit
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = defaultMaxResponseBytes
	}
}

// Provider implements transcription.Provider using Deepgram.
type Provider struct {
	cfg    Config
	client *rest.Client
}

// NewProvider creates a Deepgram provider.
func NewProvider(cfg Config, opts ...httpclient.Option) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("deepgram: api key is required")
	}
	cfg.applyDefaults()

	client, err := rest.New(httpclient.Config{
		Name:             ProviderName,
		BaseURL:          cfg.BaseURL,
		Timeout:          cfg.Timeout,
		MaxResponseBytes: cfg.MaxResponseBytes,
		Auth:             httpclient.TokenAuth(cfg.APIKey),
		Resilience:       cfg.Resilience.Build(ProviderName, httpclient.IsRetryable),
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("deepgram: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory that creates Deepgram providers
// from a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(m map[string]any) (transcription.Provider, error) {
		cfg := Config{}
		if v, ok := m["api_key"].(string); ok {
			cfg.APIKey = v
		}
		if v, ok := m["base_url"].(string); ok {
			cfg.BaseURL = v
		}
		if v, ok := m["model"].(string); ok {
			cfg.Model = v
		}
		if v, ok := m["language"].(string); ok {
			cfg.Language = v
		}
		if v, ok := m["utt_split"].(float64); ok {
			cfg.UttSplit = v
		}
		if v, ok := m["timeout"].(time.Duration); ok {
			cfg.Timeout = v
		}
		if v, ok := m["max_response_bytes"].(int64); ok {
			cfg.MaxResponseBytes = v
		}
		if v, ok := m["resilience"].(provider.ResilienceSettings); ok {
			cfg.Resilience = v
		}
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable is false while the client's circuit breaker is open.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.client.HTTP().IsAvailable(ctx)
}

// Transcribe posts the audio and returns Deepgram's utterances.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if len(req.Audio) == 0 {
		return nil, errors.New("deepgram: audio is empty")
	}

	model := p.cfg.Model
	if req.Options.Model != "" {
		model = req.Options.Model
	}
	lang := p.cfg.Language
	if req.Options.Language != "" {
		lang = req.Options.Language
	}
	mime := req.MimeType
	if mime == "" {
		mime = defaultMimeType
	}

	resp, err := rest.Post[listenResponse](ctx, p.client, "/v1/listen", req.Audio,
		rest.WithQuery("model", model),
		rest.WithQuery("language", lang),
		rest.WithQuery("punctuate", "true"),
		rest.WithQuery("smart_format", "true"),
		rest.WithQuery("utterances", "true"),
		rest.WithQuery("utt_split", strconv.FormatFloat(p.cfg.UttSplit, 'f', -1, 64)),
		rest.WithQuery("filler_words", "true"),
		rest.WithHeaders(map[string]string{"Content-Type": mime}),
	)
	if err != nil {
		return nil, fmt.Errorf("deepgram: %w", err)
	}

	out := toResponse(&resp.Data, lang)
	if len(out.Utterances) == 0 {
		return out, transcription.ErrNoUtterances
	}
	return out, nil
}

// --- internal Deepgram API response types ---

type listenResponse struct {
	Metadata struct {
		RequestID string  `json:"request_id"`
		Duration  float64 `json:"duration"`
	} `json:"metadata"`
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
		Utterances []struct {
			Start      float64 `json:"start"`
			End        float64 `json:"end"`
			Confidence float64 `json:"confidence"`
			Transcript string  `json:"transcript"`
			Speaker    *int    `json:"speaker,omitempty"`
		} `json:"utterances"`
	} `json:"results"`
}

func toResponse(r *listenResponse, lang string) *transcription.Response {
	out := &transcription.Response{
		Provider:  ProviderName,
		Duration:  r.Metadata.Duration,
		Language:  lang,
		RequestID: r.Metadata.RequestID,
	}
	if len(r.Results.Channels) > 0 {
		ch := r.Results.Channels[0]
		if ch.DetectedLanguage != "" {
			out.Language = ch.DetectedLanguage
		}
		if len(ch.Alternatives) > 0 {
			out.Text = ch.Alternatives[0].Transcript
		}
	}

	out.Utterances = make([]transcription.Utterance, 0, len(r.Results.Utterances))
	for _, u := range r.Results.Utterances {
		text := strings.TrimSpace(u.Transcript)
		if text == "" {
			continue
		}
		utt := transcription.Utterance{
			Start:      u.Start,
			End:        u.End,
			Text:       text,
			Confidence: u.Confidence,
		}
		if u.Speaker != nil {
			utt.Speaker = strconv.Itoa(*u.Speaker)
		}
		out.Utterances = append(out.Utterances, utt)
	}
	return out
}
