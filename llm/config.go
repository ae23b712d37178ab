package llm

import (
	"fmt"
	"time"

	"github.com/kbukum/getscript/provider"
)

const defaultTimeout = 80 * time.Second

// Config selects and configures a text generation backend.
type Config struct {
	// Name identifies this adapter in logs and metrics. Defaults to the dialect name.
	Name string `yaml:"name" mapstructure:"name"`
	// Dialect selects the provider mapping: "gemini", "openai" or "ollama".
	Dialect string `yaml:"dialect" mapstructure:"dialect" validate:"required"`
	// BaseURL overrides the dialect's default API base URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Model overrides the dialect's default model.
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`
	// Timeout bounds one generation call. Defaults to 80s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Headers are extra headers sent with every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	// Resilience is applied around the provider by the caller.
	Resilience provider.ResilienceSettings `yaml:"resilience" mapstructure:"resilience"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Dialect == "" {
		c.Dialect = "gemini"
	}
	if c.Name == "" {
		c.Name = c.Dialect
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// RequiresAPIKey reports whether the configured backend needs a credential.
// Local ollama runs unauthenticated.
func (c *Config) RequiresAPIKey() bool {
	return c.Dialect != "ollama"
}

// CheckCredentials returns an error when a required API key is missing.
func (c *Config) CheckCredentials() error {
	if c.RequiresAPIKey() && c.APIKey == "" {
		return fmt.Errorf("llm: api key is required for dialect %q", c.Dialect)
	}
	return nil
}
