// Package whisper implements transcription.Provider on a faster-whisper
// HTTP sidecar (POST /transcribe, multipart form).
package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/kbukum/getscript/httpclient"
	"github.com/kbukum/getscript/httpclient/rest"
	"github.com/kbukum/getscript/provider"
	"github.com/kbukum/getscript/transcription"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultWhisperURL     = "http://localhost:8387"
	defaultWhisperModel   = "base"
	defaultWhisperTimeout = 120 * time.Second
)

func init() {
	transcription.Register(ProviderName, Factory())
}

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	URL      string        `json:"url" yaml:"url"`
	Model    string        `json:"model" yaml:"model"`
	Language string        `json:"language,omitempty" yaml:"language"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
}

// Provider implements transcription.Provider using a faster-whisper sidecar.
type Provider struct {
	cfg    Config
	client *rest.Client
}

// NewProvider creates a Whisper transcription provider.
func NewProvider(cfg Config, opts ...httpclient.Option) (*Provider, error) {
	if cfg.URL == "" {
		cfg.URL = defaultWhisperURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultWhisperModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultWhisperTimeout
	}
	client, err := rest.New(httpclient.Config{
		Name:             ProviderName,
		BaseURL:          cfg.URL,
		Timeout:          cfg.Timeout,
		MaxResponseBytes: 100 << 20,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory that creates Whisper providers
// from a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		wc := Config{}
		if v, ok := cfg["url"].(string); ok {
			wc.URL = v
		}
		if v, ok := cfg["model"].(string); ok {
			wc.Model = v
		}
		if v, ok := cfg["language"].(string); ok {
			wc.Language = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			wc.Timeout = v
		}
		return NewProvider(wc)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the Whisper sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.HTTP().Do(ctx, httpclient.Request{Path: "/health"})
	return err == nil
}

// Transcribe uploads the audio to the sidecar. Its segments become the
// utterances.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if len(req.Audio) == 0 {
		return nil, errors.New("whisper: audio is empty")
	}

	model := p.cfg.Model
	if req.Options.Model != "" {
		model = req.Options.Model
	}
	lang := p.cfg.Language
	if req.Options.Language != "" {
		lang = req.Options.Language
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", "audio"+extensionFor(req.MimeType))
	if err != nil {
		return nil, fmt.Errorf("whisper: create form file: %w", err)
	}
	if _, err := part.Write(req.Audio); err != nil {
		return nil, fmt.Errorf("whisper: write audio data: %w", err)
	}
	_ = writer.WriteField("model", model)
	if lang != "" {
		_ = writer.WriteField("language", lang)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("whisper: close form: %w", err)
	}

	resp, err := rest.Post[whisperResponse](ctx, p.client, "/transcribe", buf.Bytes(),
		rest.WithHeaders(map[string]string{"Content-Type": writer.FormDataContentType()}),
	)
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}

	out := toResponse(&resp.Data)
	if len(out.Utterances) == 0 {
		return out, transcription.ErrNoUtterances
	}
	return out, nil
}

func extensionFor(mime string) string {
	switch {
	case strings.Contains(mime, "webm"):
		return ".webm"
	case strings.Contains(mime, "mp4"), strings.Contains(mime, "m4a"):
		return ".m4a"
	case strings.Contains(mime, "ogg"), strings.Contains(mime, "opus"):
		return ".ogg"
	case strings.Contains(mime, "mpeg"):
		return ".mp3"
	default:
		return ".wav"
	}
}

// --- internal Whisper API response types ---

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func toResponse(resp *whisperResponse) *transcription.Response {
	utterances := make([]transcription.Utterance, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		utterances = append(utterances, transcription.Utterance{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}

	var duration float64
	if len(resp.Segments) > 0 {
		duration = resp.Segments[len(resp.Segments)-1].End
	}

	return &transcription.Response{
		Provider:   ProviderName,
		Text:       strings.TrimSpace(resp.Text),
		Utterances: utterances,
		Duration:   duration,
		Language:   resp.Language,
	}
}
