package bootstrap

import (
	"time"

	"github.com/kbukum/getscript/logger"
)

// Option customizes NewApp.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
}

func resolveOptions(opts []Option) appOptions {
	o := appOptions{gracefulTimeout: defaultGracefulTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger replaces the logger NewApp would build from the logging section.
// The global logger is left untouched.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout bounds Shutdown. Non-positive values are ignored.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		if d > 0 {
			o.gracefulTimeout = d
		}
	}
}
