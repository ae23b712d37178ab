package app

import (
	"fmt"
	"slices"
	"time"

	"github.com/kbukum/getscript/config"
	apperrors "github.com/kbukum/getscript/errors"
	"github.com/kbukum/getscript/llm"
	"github.com/kbukum/getscript/media"
	"github.com/kbukum/getscript/observability"
	"github.com/kbukum/getscript/provider"
	"github.com/kbukum/getscript/server"
	"github.com/kbukum/getscript/transcript"
	"github.com/kbukum/getscript/transcription"
	"github.com/kbukum/getscript/transcription/deepgram"
	"github.com/kbukum/getscript/transcription/whisper"
	"github.com/kbukum/getscript/validation"
)

// ServiceName is the config and telemetry name of the service.
const ServiceName = "getscript"

// Config is the complete getscript configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config            `yaml:"server" mapstructure:"server"`
	Media         media.Config             `yaml:"media" mapstructure:"media"`
	Transcription TranscriptionConfig      `yaml:"transcription" mapstructure:"transcription"`
	LLM           llm.Config               `yaml:"llm" mapstructure:"llm"`
	Cleanup       transcript.CleanerConfig `yaml:"cleanup" mapstructure:"cleanup"`
	Observability observability.Config     `yaml:"observability" mapstructure:"observability"`

	// ShutdownTimeout bounds graceful shutdown; zero keeps the bootstrap
	// default.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gte=0"`

	// DeepgramAPIKey and GeminiAPIKey pick up the DEEPGRAM_API_KEY and
	// GEMINI_API_KEY environment variables. ApplyDefaults copies them into
	// the nested sections when those are unset.
	DeepgramAPIKey string `yaml:"-" mapstructure:"deepgram_api_key"`
	GeminiAPIKey   string `yaml:"-" mapstructure:"gemini_api_key"`
}

// TranscriptionConfig selects the speech-to-text backend.
type TranscriptionConfig struct {
	Provider string         `yaml:"provider" mapstructure:"provider"`
	Deepgram DeepgramConfig `yaml:"deepgram" mapstructure:"deepgram"`
	Whisper  WhisperConfig  `yaml:"whisper" mapstructure:"whisper"`
}

// DeepgramConfig configures the Deepgram backend. Zero values take the
// backend defaults.
type DeepgramConfig struct {
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Model    string `yaml:"model" mapstructure:"model"`
	Language string `yaml:"language" mapstructure:"language"`
	// UttSplit is the pause in seconds that ends an utterance.
	UttSplit         float64                     `yaml:"utt_split" mapstructure:"utt_split" validate:"gte=0"`
	Timeout          time.Duration               `yaml:"timeout" mapstructure:"timeout"`
	MaxResponseBytes int64                       `yaml:"max_response_bytes" mapstructure:"max_response_bytes" validate:"gte=0"`
	Resilience       provider.ResilienceSettings `yaml:"resilience" mapstructure:"resilience"`
}

// WhisperConfig configures the faster-whisper sidecar backend.
type WhisperConfig struct {
	URL      string        `yaml:"url" mapstructure:"url"`
	Model    string        `yaml:"model" mapstructure:"model"`
	Language string        `yaml:"language" mapstructure:"language"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills every section and resolves the credential aliases.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Media.ApplyDefaults()
	c.LLM.ApplyDefaults()
	c.Cleanup.ApplyDefaults()
	c.Observability.ApplyDefaults()

	if c.Transcription.Provider == "" {
		c.Transcription.Provider = deepgram.ProviderName
	}
	if c.Transcription.Deepgram.APIKey == "" {
		c.Transcription.Deepgram.APIKey = c.DeepgramAPIKey
	}
	if c.LLM.APIKey == "" && c.LLM.Dialect == "gemini" {
		c.LLM.APIKey = c.GeminiAPIKey
	}
}

// Validate checks structural configuration. Missing credentials are not a
// validation error; see CredentialsError.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if backends := transcription.Backends(); !slices.Contains(backends, c.Transcription.Provider) {
		return fmt.Errorf("config.transcription.provider must be one of %v (got: %s)", backends, c.Transcription.Provider)
	}
	return validation.Validate(c)
}

// CredentialsError reports the first missing API key, or nil. The service
// still starts without keys and answers each transcript request with this
// error.
func (c *Config) CredentialsError() error {
	if c.Transcription.Provider == deepgram.ProviderName && c.Transcription.Deepgram.APIKey == "" {
		return apperrors.Configuration("DEEPGRAM_API_KEY is not configured")
	}
	if c.Cleanup.AI {
		if err := c.LLM.CheckCredentials(); err != nil {
			return apperrors.Configuration("LLM_API_KEY is not configured").WithCause(err)
		}
	}
	return nil
}

// transcriptionSettings renders the selected backend's section as a
// factory config map.
func (c *Config) transcriptionSettings() map[string]any {
	switch c.Transcription.Provider {
	case whisper.ProviderName:
		w := c.Transcription.Whisper
		return map[string]any{
			"url":      w.URL,
			"model":    w.Model,
			"language": w.Language,
			"timeout":  w.Timeout,
		}
	default:
		d := c.Transcription.Deepgram
		return map[string]any{
			"api_key":            d.APIKey,
			"base_url":           d.BaseURL,
			"model":              d.Model,
			"language":           d.Language,
			"utt_split":          d.UttSplit,
			"timeout":            d.Timeout,
			"max_response_bytes": d.MaxResponseBytes,
			"resilience":         d.Resilience,
		}
	}
}
