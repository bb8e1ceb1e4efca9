package prefkit

import (
	"log/slog"

	"github.com/prefkit/prefkit/codec"
)

// Option configures a Setting at construction.
type Option func(*config)

type config struct {
	codec  codec.Codec
	logger *slog.Logger
	strict bool
}

// WithCodec replaces the default JSON codec.
func WithCodec(c codec.Codec) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.codec = c
		}
	}
}

// WithLogger sets the logger for cached-path failures. Defaults to
// slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithStrict makes encode failures on write panic instead of being logged.
// Intended for development and test configurations: a value that cannot
// round-trip through the codec is a bug to surface immediately, not a
// runtime data condition.
func WithStrict() Option {
	return func(cfg *config) {
		cfg.strict = true
	}
}
