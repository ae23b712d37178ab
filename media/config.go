package media

import (
	"time"

	"github.com/kbukum/getscript/util"
)

const (
	defaultBinary      = "yt-dlp"
	defaultFormat      = "bestaudio"
	defaultTimeout     = 90 * time.Second
	defaultGracePeriod = 5 * time.Second
	defaultMaxBytes    = "200MB"
)

// Config configures the yt-dlp acquirer.
type Config struct {
	// Binary is the yt-dlp executable name or path.
	Binary string `yaml:"binary" mapstructure:"binary"`
	// Format is the yt-dlp format selector.
	Format string `yaml:"format" mapstructure:"format"`
	// Timeout is the acquisition ceiling.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// GracePeriod is the SIGTERM to SIGKILL delay on cancellation.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
	// MaxBytes caps the captured audio, e.g. "200MB".
	MaxBytes string `yaml:"max_bytes" mapstructure:"max_bytes"`
	// ExtraArgs are passed to yt-dlp before the URL, e.g. cookies or proxy flags.
	ExtraArgs []string `yaml:"extra_args" mapstructure:"extra_args"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Binary == "" {
		c.Binary = defaultBinary
	}
	if c.Format == "" {
		c.Format = defaultFormat
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = defaultGracePeriod
	}
	if c.MaxBytes == "" {
		c.MaxBytes = defaultMaxBytes
	}
}

// MaxBytesValue returns MaxBytes in bytes.
func (c *Config) MaxBytesValue() int64 {
	return util.ParseSize(c.MaxBytes, util.ParseSize(defaultMaxBytes, 0))
}
