package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/getscript/provider"
)

const (
	defaultTimeout          = 30 * time.Second
	defaultMaxResponseBytes = 10 << 20
)

// Config configures an HTTP client.
type Config struct {
	// Name identifies the client in logs and errors.
	Name string
	// BaseURL is prepended to request paths that are not absolute URLs.
	BaseURL string
	// Timeout bounds each request, including reading the body. Defaults to 30s.
	Timeout time.Duration
	// MaxResponseBytes caps the response body size. Defaults to 10MB.
	MaxResponseBytes int64
	// Auth is applied to every request unless the request overrides it.
	Auth *AuthConfig
	// Headers are default headers applied to all requests.
	Headers map[string]string
	// Resilience wraps each call; the zero value disables it.
	Resilience provider.ResilienceConfig
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = defaultMaxResponseBytes
	}
	if c.Name == "" {
		c.Name = "http"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.MaxResponseBytes <= 0 {
		return fmt.Errorf("httpclient: max response bytes must be positive")
	}
	return nil
}
